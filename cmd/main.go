package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ckdscreen/internal/genai"
	"ckdscreen/internal/handlers"
	"ckdscreen/internal/logger"
	"ckdscreen/internal/repository"
	"ckdscreen/internal/repository/db"
	"ckdscreen/internal/server"
	"ckdscreen/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultSweepTick = 1 * time.Minute

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load .env (API key) and config.yml
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Infow("no .env loaded", "err", err)
	}
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	gen := genai.New(genai.Config{
		APIKey:  viper.GetString("genai.api_key"),
		Model:   viper.GetString("genai.model"),
		Timeout: viper.GetDuration("genai.timeout"),
	})
	services := service.NewService(repos, gen, log.Named("service"), service.Config{
		SigningKey:   viper.GetString("auth.signing_key"),
		TokenTTL:     viper.GetDuration("auth.token_ttl"),
		SessionTTL:   viper.GetDuration("session.ttl"),
		ArtifactPath: viper.GetString("screening.artifact"),
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// expire idle sessions in the background
	go services.Sessions.Run(ctx, sweepTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// env overrides: GEMINI_API_KEY for the generator, CKD_SIGNING_KEY for tokens
	_ = viper.BindEnv("genai.api_key", "GEMINI_API_KEY")
	_ = viper.BindEnv("auth.signing_key", "CKD_SIGNING_KEY")

	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "users.db")
		dbPath = "users.db"
	}
	return db.InitDB(dbPath)
}

func sweepTick() time.Duration {
	if d := viper.GetDuration("session.sweep_interval"); d > 0 {
		return d
	}
	return defaultSweepTick
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
