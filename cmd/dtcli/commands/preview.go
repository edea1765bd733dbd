package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/etl"
	"github.com/ruslano69/datatransformer/pkg/sink"
)

// Preview загружает источник и печатает первые rows строк без преобразования
func Preview(ctx context.Context, w io.Writer, cfg *config.Config, rows int) error {
	t, err := etl.LoadSource(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Table '%s': %d column(s), %d row(s)\n\n", t.Name, len(t.Columns), t.Len())
	for _, c := range t.Columns {
		fmt.Fprintf(w, "  %-24s %s\n", c.Name, c.Type)
	}
	fmt.Fprintln(w)

	return sink.Render(sink.NewTextDisplay(w), t, rows)
}
