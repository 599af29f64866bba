package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quickrail/internal/cache"
	intconfig "quickrail/internal/config"
	intdb "quickrail/internal/db"
	"quickrail/internal/events"
	router "quickrail/internal/http"
	h "quickrail/internal/http/handlers"
	"quickrail/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "quickrail",
		Short: "Train ticket booking and quick purchase backend",
		RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the quick_bookings and users tables",
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrate(cmd.Context()) },
		},
	)
	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func migrate(ctx context.Context) error {
	env := intconfig.LoadEnv()
	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()
	if db == nil {
		log.Println("DB_DRIVER=memory, tidak ada skema untuk dibuat")
		return nil
	}
	if err := intdb.EnsureSchema(ctx, db); err != nil {
		return err
	}
	log.Println("Skema database siap.")
	return nil
}

func serve(ctx context.Context) error {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()

	deps := h.Deps{
		DB:        db,
		SeatTTL:   env.SeatCacheTTL,
		JWTSecret: []byte(env.JWTSecret),
	}
	if db != nil {
		if err := intdb.EnsureSchema(ctx, db); err != nil {
			return err
		}
		deps.Bookings = repositories.QuickBookingRepository{DB: db}
		deps.Users = repositories.UserRepository{DB: db}
	} else {
		deps.Bookings = repositories.NewMemoryQuickBookingStore()
		deps.Users = repositories.NewMemoryUserStore()
	}

	deps.Cache = cache.New(ctx, env.RedisAddr, env.RedisPassword)
	if c, ok := deps.Cache.(io.Closer); ok {
		defer c.Close()
	}
	deps.Events = events.New(env.AMQPURL)
	if c, ok := deps.Events.(io.Closer); ok {
		defer c.Close()
	}
	h.Configure(deps)

	// Router (Gin engine)
	r := router.NewRouter(env)
	h.SetRouter(r)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server berjalan di http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Gagal menjalankan server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Mematikan server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Println("Server berhenti dengan aman.")
	return nil
}
