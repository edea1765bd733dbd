package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/etl"
	"github.com/ruslano69/datatransformer/pkg/sink"
)

// Run выполняет задание и печатает итог
func Run(ctx context.Context, w io.Writer, cfg *config.Config) error {
	fmt.Fprintf(w, "Running job '%s'...\n", cfg.Name)
	fmt.Fprintf(w, "Transform: %s\n", cfg.Transform)

	p := etl.NewProcessor(cfg)
	p.SetPreviewWriter(w)
	if err := p.Execute(ctx); err != nil {
		return err
	}

	stats := p.GetStats()
	fmt.Fprintf(w, "✓ Loaded %s row(s)\n", humanize.Comma(int64(stats.RowsLoaded)))
	if cfg.Output.Destination != "" {
		fmt.Fprintf(w, "✓ Exported %s row(s) to %s\n", humanize.Comma(int64(stats.RowsExported)), sink.Redact(cfg.Output.Destination))
	}
	fmt.Fprintf(w, "✓ Done in %s (run %s)\n", stats.Duration.Round(time.Millisecond), stats.RunID)
	return nil
}
