package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"rosmqtt/pkg/bridge"
	"rosmqtt/pkg/config"
	"rosmqtt/pkg/logger"
	"rosmqtt/pkg/mqttbus"
	"rosmqtt/pkg/rosbus"
	"rosmqtt/pkg/rosmsg"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the configured bridges",
	Long:  "Connects to the MQTT broker, starts every configured bridge, and serves health and status endpoints.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.serve")

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := mqttbus.Connect(cfg.MQTT, log)
		if err != nil {
			log.Error("Failed to connect to MQTT broker", "error", err)
			return fmt.Errorf("connect to MQTT broker: %w", err)
		}
		defer client.Disconnect()

		// The loopback node stands in for a DDS-backed ROS client; swap the
		// rosbus.Node implementation to attach a real ROS graph.
		node := rosbus.NewInMemoryNode()
		defer node.Close()

		manager, err := bridge.NewManager(cfg, node, client, rosmsg.Default, log)
		if err != nil {
			return fmt.Errorf("initialize bridge manager: %w", err)
		}

		log.Info("Bridge daemon started", "bridges", len(cfg.Bridges), "broker", cfg.MQTT.BrokerURL, "topic_prefix", cfg.MQTT.TopicPrefix)
		if err := manager.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Bridge daemon failed", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
