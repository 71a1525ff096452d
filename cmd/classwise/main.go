package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/classwise/classwise/internal/profile"
	"github.com/classwise/classwise/internal/version"
	"github.com/classwise/classwise/server"
	"github.com/classwise/classwise/store"
	"github.com/classwise/classwise/store/db"
)

const greetingBanner = `
 ██████╗██╗      █████╗ ███████╗███████╗██╗    ██╗██╗███████╗███████╗
██╔════╝██║     ██╔══██╗██╔════╝██╔════╝██║    ██║██║██╔════╝██╔════╝
██║     ██║     ███████║███████╗███████╗██║ █╗ ██║██║███████╗█████╗
██║     ██║     ██╔══██║╚════██║╚════██║██║███╗██║██║╚════██║██╔══╝
╚██████╗███████╗██║  ██║███████║███████║╚███╔███╔╝██║███████║███████╗
 ╚═════╝╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝ ╚══╝╚══╝ ╚═╝╚══════╝╚══════╝
`

var rootCmd = &cobra.Command{
	Use:   "classwise",
	Short: "Lesson planning with semantic search over your own plans and notes",
	Run: func(_ *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)

		instanceProfile := &profile.Profile{
			Mode:                  viper.GetString("mode"),
			Addr:                  viper.GetString("addr"),
			Port:                  viper.GetInt("port"),
			Data:                  viper.GetString("data"),
			Driver:                viper.GetString("driver"),
			DSN:                   viper.GetString("dsn"),
			InstanceURL:           viper.GetString("instance-url"),
			Version:               version.Version,
			AIEnabled:             viper.GetBool("ai-enabled"),
			AIBaseURL:             viper.GetString("ai-base-url"),
			AIAPIKey:              viper.GetString("ai-api-key"),
			AIEmbeddingModel:      viper.GetString("ai-embedding-model"),
			AIEmbeddingDimensions: viper.GetInt("ai-embedding-dimensions"),
			AIChatModel:           viper.GetString("ai-chat-model"),
		}
		if err := instanceProfile.Validate(); err != nil {
			logger.Error("invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			logger.Error("failed to create db driver", slog.String("error", err.Error()))
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance, logger)
		if err != nil {
			logger.Error("failed to create server", slog.String("error", err.Error()))
			os.Exit(1)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Print(greetingBanner + "\n")
		fmt.Printf("Version %s has been started on port %d\n", version.Version, instanceProfile.Port)
		if err := s.Start(ctx); err != nil {
			if ctx.Err() == nil {
				logger.Error("failed to start server", slog.String("error", err.Error()))
				cancel()
			}
		}

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "demo")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", "")
	viper.SetDefault("driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your classwise instance")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("classwise")
	viper.AutomaticEnv()
	if err := viper.BindEnv("instance-url", "CLASSWISE_INSTANCE_URL"); err != nil {
		panic(err)
	}
	for _, env := range [][2]string{
		{"ai-enabled", "CLASSWISE_AI_ENABLED"},
		{"ai-base-url", "CLASSWISE_AI_BASE_URL"},
		{"ai-api-key", "CLASSWISE_AI_API_KEY"},
		{"ai-embedding-model", "CLASSWISE_AI_EMBEDDING_MODEL"},
		{"ai-embedding-dimensions", "CLASSWISE_AI_EMBEDDING_DIMENSIONS"},
		{"ai-chat-model", "CLASSWISE_AI_CHAT_MODEL"},
	} {
		if err := viper.BindEnv(env[0], env[1]); err != nil {
			panic(err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
