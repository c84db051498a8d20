package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rosmqtt",
	Short:         "Bridge messages between ROS topics and MQTT",
	Long:          "rosmqtt runs declaratively configured bridges between typed ROS topics and JSON MQTT topics, in either direction.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
