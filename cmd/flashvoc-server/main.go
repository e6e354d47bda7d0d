package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/thanwa/flashvoc/internal/auth"
	"github.com/thanwa/flashvoc/internal/bootstrap"
	"github.com/thanwa/flashvoc/internal/config"
	"github.com/thanwa/flashvoc/internal/database"
	"github.com/thanwa/flashvoc/internal/mastery"
	"github.com/thanwa/flashvoc/internal/practice"
	"github.com/thanwa/flashvoc/internal/progress"
	"github.com/thanwa/flashvoc/internal/server"
	"github.com/thanwa/flashvoc/internal/synonym"
	"github.com/thanwa/flashvoc/internal/user"
	"github.com/thanwa/flashvoc/internal/vocab"
)

var configFile string

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "flashvoc-server",
		Short:         "Vocabulary practice HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), debugMode)
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, debugMode bool) error {
	app := bootstrap.New()
	logger := newLogger(debugMode)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if cfg.Google.ClientID == "" {
		return errors.New("GOOGLE_CLIENT_ID is required to serve logins")
	}
	if cfg.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required to sign session cookies")
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Connect() > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error { return db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("database.Migrate() > %w", err)
	}

	words := vocab.NewDBRepository(db)
	tracker := mastery.NewDBTracker(db)
	recorder := progress.NewDBRecorder(db)
	games := synonym.NewDBRepository(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	srv := server.New(cfg, logger, server.Dependencies{
		Google:   auth.NewGoogleAuth(cfg.Google),
		Sessions: auth.NewSessionManager(cfg.Session),
		Users:    user.NewDBRepository(db),
		Words:    words,
		Practice: practice.NewService(words, tracker, recorder, rng, logger),
		Games:    synonym.NewService(games, rand.New(rand.NewSource(time.Now().UnixNano()+1))),
		History:  games,
		Recorder: recorder,
	})
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		return srv.Start()
	})
}

func newLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}
