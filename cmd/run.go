package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/logger"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/monitor"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monitoring loop: periodically check all sources and notify active users",
	Run: func(_ *cobra.Command, _ []string) {
		run()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobhunt-buddy", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	deps, err := buildDeps(ctx, config, logger)
	if err != nil {
		logger.Fatal("building dependencies", zap.Error(err))
	}
	defer deps.cleanup()

	// Inbound chat events are out of scope for this binary; the registry is
	// still swept so sessions abandoned by the wizard cannot pile up.
	registry := session.NewRegistry(deps.console, logger)

	scheduler := monitor.NewScheduler(deps.monitor, registry, config.CheckInterval, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("starting scheduler", zap.Error(err))
	}

	<-ctx.Done()
	scheduler.Stop()
	logger.Info("exiting", zap.String("reason", "signal received"))
}
