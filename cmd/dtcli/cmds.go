package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ruslano69/datatransformer/cmd/dtcli/commands"
	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/logging"
)

func newTablesCmd() *cobra.Command {
	var src sourceFlags
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.toConfig()
			if err != nil {
				return err
			}
			if err := cfg.Database.Validate(); err != nil {
				return err
			}
			return commands.ListTables(cmd.Context(), cmd.OutOrStdout(), cfg.Database.AdapterConfig())
		},
	}
	src.register(cmd.Flags())
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var (
		src  sourceFlags
		rows int
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show source columns and first rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.toConfig()
			if err != nil {
				return err
			}
			return commands.Preview(cmd.Context(), cmd.OutOrStdout(), cfg, rows)
		},
	}
	src.register(cmd.Flags())
	cmd.Flags().IntVarP(&rows, "rows", "n", 20, "rows to show, 0 = all")
	return cmd
}

func newTransformCmd() *cobra.Command {
	var (
		src sourceFlags
		tr  transformFlags
		out outputFlags
	)
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform a table and export the result",
		Example: `  dtcli transform -f sales.xlsx --columns region,amount --agg sum --agg-column amount --sort amount --order desc -o out.xlsx
  dtcli transform --db sqlite --dsn shop.db -t orders --columns customer,total --agg max --agg-column total -p 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := src.toConfig()
			if err != nil {
				return err
			}
			if cfg.Transform, err = tr.request(cmd, cfg.Transform); err != nil {
				return err
			}
			out.apply(cmd, &cfg.Output)
			if cfg.Name == "default" {
				cfg.Name = "cli"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return commands.Run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	src.register(cmd.Flags())
	tr.register(cmd.Flags())
	out.register(cmd.Flags())
	return cmd
}

func newRunCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a job from a YAML config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				return errors.New("--config is required")
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			level, format := logLevel, logFormat
			if !cmd.Flags().Changed("log-level") {
				level = cfg.Logging.Level
			}
			if !cmd.Flags().Changed("log-format") {
				format = cfg.Logging.Format
			}
			logging.Setup(level, format)

			return commands.Run(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "job config (YAML)")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	var (
		path   string
		dbType string
	)
	cmd := &cobra.Command{
		Use:   "init-config",
		Short: "Create a sample job config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.InitConfig(cmd.OutOrStdout(), path, dbType)
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", "config.yaml", "config file to create")
	cmd.Flags().StringVar(&dbType, "db", "", "database source: mysql, sqlite, postgres, mssql (default: file source)")
	return cmd
}
