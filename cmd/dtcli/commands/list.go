package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ruslano69/datatransformer/pkg/adapters"
	"github.com/ruslano69/datatransformer/pkg/loader"
)

// ListTables печатает таблицы базы данных
func ListTables(ctx context.Context, w io.Writer, cfg adapters.Config) error {
	tables, err := loader.ListTables(ctx, cfg)
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		fmt.Fprintln(w, "No tables found")
		return nil
	}

	fmt.Fprintf(w, "Found %d table(s):\n", len(tables))
	for i, name := range tables {
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
	return nil
}
