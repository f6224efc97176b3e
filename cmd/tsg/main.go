package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tsg",
	Short: "Troubleshooter for the OMS Agent for Linux",
	Long: "tsg walks through common OMS Agent for Linux problems (heartbeat, connectivity,\n" +
		"syslog, high CPU/memory, installation, custom logs) and can collect the agent\n" +
		"logs for a support case. It is fully interactive and must be run as root.\n\n" +
		"Environment:\n" +
		"  TSG_CONFIG     path to a YAML config file\n" +
		"  TSG_LOG_LEVEL  diagnostic log level on stderr (default: warn)",
	Version:      Version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runTSG,
}
