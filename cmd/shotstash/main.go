package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shotstash/shotstash/internal/profile"
	"github.com/shotstash/shotstash/server"
	"github.com/shotstash/shotstash/store"
	"github.com/shotstash/shotstash/store/db"
)

const (
	greetingBanner = `shotstash - video shot catalog & retrieval`
)

var (
	rootCmd = &cobra.Command{
		Use:   "shotstash",
		Short: "A catalog and retrieval service for video shots",
		Run: func(_ *cobra.Command, _ []string) {
			instanceProfile := &profile.Profile{
				Mode:                viper.GetString("mode"),
				Addr:                viper.GetString("addr"),
				Port:                viper.GetInt("port"),
				DSN:                 viper.GetString("dsn"),
				Driver:              viper.GetString("driver"),
				Version:             version,
				EmbedderProvider:    viper.GetString("embedder-provider"),
				EmbedderAPIKey:      viper.GetString("embedder-api-key"),
				EmbedderBaseURL:     viper.GetString("embedder-base-url"),
				EmbedderModel:       viper.GetString("embedder-model"),
				BackfillIntervalSec: viper.GetInt("backfill-interval-sec"),
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				slog.Error("invalid configuration", "error", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				slog.Error("failed to create db driver", "error", err)
				os.Exit(1)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				slog.Error("failed to migrate database", "error", err)
				os.Exit(1)
			}

			s, err := server.NewServer(ctx, instanceProfile, storeInstance)
			if err != nil {
				slog.Error("failed to create server", "error", err)
				os.Exit(1)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("received signal, shutting down", "signal", sig.String())
				s.Shutdown(ctx)
				cancel()
			}()

			fmt.Println(greetingBanner)
			if err := s.Start(ctx); err != nil && err != http.ErrServerClosed {
				slog.Error("failed to start server", "error", err)
				cancel()
			}

			<-ctx.Done()
		},
	}

	version = "0.1.0"
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("driver", "postgres")
	viper.SetDefault("embedder-provider", "")
	viper.SetDefault("backfill-interval-sec", 0)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8081, "binding port for the server")
	rootCmd.PersistentFlags().String("dsn", "", "PostgreSQL connection string")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver")
	rootCmd.PersistentFlags().String("embedder-provider", "", "embedder provider: disabled, fixed or openai")
	rootCmd.PersistentFlags().String("embedder-api-key", "", "API key for the openai embedder")
	rootCmd.PersistentFlags().String("embedder-base-url", "", "base URL for the openai embedder")
	rootCmd.PersistentFlags().String("embedder-model", "", "embedding model name")
	rootCmd.PersistentFlags().Int("backfill-interval-sec", 0, "embedding backfill interval in seconds, 0 disables the runner")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("shotstash")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to execute command", "error", err)
		os.Exit(1)
	}
}
