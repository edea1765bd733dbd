package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ruslano69/datatransformer/pkg/logging"
)

const version = "1.0.0"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dtcli",
	Short: "Tabular data transformer",
	Long: `dtcli loads a table from XLSX, TDTP XML or a database query,
projects, groups, aggregates and sorts it, and exports the result
to XLSX, TDTP XML, HTML, S3, Kafka or RabbitMQ.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, logFormat)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dtcli version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("DT_LOG_LEVEL", "warn"), "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", envOr("DT_LOG_FORMAT", "text"), "log format: text or json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newTablesCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newTransformCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newInitConfigCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
