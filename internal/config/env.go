package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	// store connection (the two values the front end used to carry)
	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	SeatCacheTTL  time.Duration

	AMQPURL     string
	JWTSecret   string
	CORSOrigins []string
}

func LoadEnv() Env {
	if err := godotenv.Load(); err != nil {
		log.Println("file .env tidak ditemukan, pakai environment saja")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("SEAT_CACHE_TTL", "15m")
	v.SetDefault("JWT_SECRET", "super-secret-key-change-me")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	return envFrom(v)
}

func envFrom(v *viper.Viper) Env {
	driver := strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER")))
	dsn := strings.TrimSpace(v.GetString("DB_DSN"))
	if driver == "" {
		if dsn == "" {
			driver = DriverMemory
		} else {
			driver = DriverMySQL
		}
	}

	ttl := v.GetDuration("SEAT_CACHE_TTL")
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	origins := []string{}
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	return Env{
		AppAddr:       strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:       strings.TrimSpace(v.GetString("GIN_MODE")),
		DBDriver:      driver,
		DBDSN:         dsn,
		RedisAddr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		SeatCacheTTL:  ttl,
		AMQPURL:       strings.TrimSpace(v.GetString("AMQP_URL")),
		JWTSecret:     v.GetString("JWT_SECRET"),
		CORSOrigins:   origins,
	}
}
