package config

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestEnvFromDefaultsToMemory(t *testing.T) {
	v := viper.New()
	env := envFrom(v)
	if env.DBDriver != DriverMemory {
		t.Fatalf("driver got %q", env.DBDriver)
	}
	if env.SeatCacheTTL != 15*time.Minute {
		t.Fatalf("ttl got %v", env.SeatCacheTTL)
	}
	if len(env.CORSOrigins) != 0 {
		t.Fatalf("origins got %v", env.CORSOrigins)
	}
}

func TestEnvFromDSNImpliesMySQL(t *testing.T) {
	v := viper.New()
	v.Set("DB_DSN", "user:pass@tcp(localhost:3306)/rail?parseTime=true")
	v.Set("SEAT_CACHE_TTL", "2m")
	v.Set("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	env := envFrom(v)
	if env.DBDriver != DriverMySQL {
		t.Fatalf("driver got %q", env.DBDriver)
	}
	if env.SeatCacheTTL != 2*time.Minute {
		t.Fatalf("ttl got %v", env.SeatCacheTTL)
	}
	if !reflect.DeepEqual(env.CORSOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Fatalf("origins got %v", env.CORSOrigins)
	}
}

func TestEnvFromExplicitDriver(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", " Postgres ")
	v.Set("DB_DSN", "postgres://localhost/rail")
	if got := envFrom(v).DBDriver; got != DriverPostgres {
		t.Fatalf("driver got %q", got)
	}
}

func TestConnectDBRejectsUnknownDriver(t *testing.T) {
	if _, err := ConnectDB(Env{DBDriver: "sqlite"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if db, err := ConnectDB(Env{DBDriver: DriverMemory}); err != nil || db != nil {
		t.Fatalf("memory driver got %v, %v", db, err)
	}
}

func TestEnsureDBWithoutConnection(t *testing.T) {
	if DB != nil {
		t.Skip("shared DB already connected")
	}
	if err := EnsureDB(context.Background()); err == nil {
		t.Fatalf("expected error without a connection")
	}
}
