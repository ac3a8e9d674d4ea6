package main

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"livenotify/internal/adapters"
	"livenotify/internal/di"
	"livenotify/internal/providers"
	"livenotify/internal/services"
	"livenotify/internal/structures"
)

var (
	version = "dev"
	flags   structures.CliFlags
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "livenotify",
		Short: "Go-live notifier for Douyu, Bilibili and Twitch",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := di.InitApp(&flags)
			return err
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Log at debug level")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("livenotify %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check <platform> <channel>",
		Short: "Fetch the current room state once and print it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], args[1])
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCheck(platform, channel string) error {
	conf, err := providers.NewConfigProvider(&flags)
	if err != nil {
		return err
	}
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return err
	}
	defer logger.Close()

	registry, err := adapters.NewRegistry(conf, logger)
	if err != nil {
		return err
	}
	svc := services.NewSubscriptionService(registry, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	info, err := svc.Check(ctx, platform, channel)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
