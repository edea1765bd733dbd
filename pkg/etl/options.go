package etl

import (
	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/loader"
	"github.com/ruslano69/datatransformer/pkg/sink"
	"github.com/ruslano69/datatransformer/pkg/storage"
)

// ExportOptions параметры выгрузки из секции output
func ExportOptions(cfg *config.Config) sink.ExportOptions {
	opts := sink.DefaultExportOptions()
	opts.Sheet = cfg.Output.Sheet
	opts.TypedHeaders = cfg.Output.TypedHeaders
	opts.Packet.Sender = cfg.Name
	opts.Packet.Compression.Enabled = cfg.Output.Compress
	if cfg.Output.CompressLevel > 0 {
		opts.Packet.Compression.Level = cfg.Output.CompressLevel
	}
	opts.Storage = storageConfig(cfg)
	opts.Retry = cfg.Output.Retry
	return opts
}

// FileOptions параметры чтения файла-источника
func FileOptions(cfg *config.Config) loader.FileOptions {
	return loader.FileOptions{
		Sheet:   cfg.Source.Sheet,
		Storage: storageConfig(cfg),
	}
}

func storageConfig(cfg *config.Config) *storage.Config {
	if cfg.Storage == (storage.Config{}) {
		return nil
	}
	s := cfg.Storage
	return &s
}
