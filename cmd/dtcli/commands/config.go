package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/ruslano69/datatransformer/pkg/config"
)

// InitConfig создает пример задания. Существующий файл не перезаписывается.
func InitConfig(w io.Writer, path, dbType string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s already exists", path)
	}

	if err := config.Save(path, config.CreateSampleConfig(dbType)); err != nil {
		return err
	}

	kind := dbType
	if kind == "" {
		kind = "file"
	}
	fmt.Fprintf(w, "✓ Created sample %s config: %s\n", kind, path)
	fmt.Fprintln(w, "Edit the file and run:")
	fmt.Fprintf(w, "  dtcli run --config %s\n", path)
	return nil
}
