// Package etl выполняет задание целиком: загрузка таблицы, преобразование,
// выгрузка и публикация итога.
package etl

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"hermannm.dev/wrap"

	"github.com/ruslano69/datatransformer/pkg/config"
	"github.com/ruslano69/datatransformer/pkg/core/table"
	"github.com/ruslano69/datatransformer/pkg/core/transform"
	"github.com/ruslano69/datatransformer/pkg/loader"
	"github.com/ruslano69/datatransformer/pkg/logging"
	"github.com/ruslano69/datatransformer/pkg/resultlog"
	"github.com/ruslano69/datatransformer/pkg/retry"
	"github.com/ruslano69/datatransformer/pkg/sink"
)

// ProcessorStats статистика выполнения задания
type ProcessorStats struct {
	RunID        string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	RowsLoaded   int
	RowsExported int
}

// ResultPublisher получатель итога выполнения
type ResultPublisher interface {
	Publish(ctx context.Context, result resultlog.Result) error
	Close() error
}

// Processor выполняет одно задание из конфигурации
type Processor struct {
	config    *config.Config
	engine    *transform.Engine
	preview   io.Writer
	publisher ResultPublisher
	stats     ProcessorStats
}

// NewProcessor создает процессор. Предпросмотр печатается в stdout.
func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{
		config:  cfg,
		engine:  transform.NewEngine(),
		preview: os.Stdout,
	}
}

// SetPreviewWriter задает поток для предпросмотра результата
func (p *Processor) SetPreviewWriter(w io.Writer) {
	p.preview = w
}

// SetResultPublisher задает получателя итога вместо Redis из конфигурации
func (p *Processor) SetResultPublisher(pub ResultPublisher) {
	p.publisher = pub
}

// Execute выполняет задание. Итог публикуется и при ошибке.
func (p *Processor) Execute(ctx context.Context) (err error) {
	if p.config == nil {
		return fmt.Errorf("config is nil")
	}

	p.stats = ProcessorStats{RunID: uuid.NewString(), StartTime: time.Now()}
	ctx = logging.WithRunID(ctx, p.stats.RunID)
	log := logging.WithFields(ctx, "job", p.config.Name)

	defer func() {
		p.stats.EndTime = time.Now()
		p.stats.Duration = p.stats.EndTime.Sub(p.stats.StartTime)
		if err != nil {
			log.Error("job failed", "error", err, "duration", p.stats.Duration)
		} else {
			log.Info("job finished",
				"rows_loaded", p.stats.RowsLoaded,
				"rows_exported", p.stats.RowsExported,
				"duration", p.stats.Duration)
		}
		p.publishResult(ctx, err)
	}()

	source, err := LoadSource(ctx, p.config)
	if err != nil {
		return wrap.Error(err, "failed to load source")
	}
	p.stats.RowsLoaded = source.Len()
	log.Debug("source loaded", "table", source.Name, "rows", source.Len(), "columns", len(source.Columns))

	result, err := p.engine.Transform(source, p.config.Transform)
	if err != nil {
		return wrap.Error(err, "failed to transform table")
	}
	log.Debug("table transformed", "request", p.config.Transform.String(), "rows", result.Len())

	if n := p.config.Output.Preview; n > 0 {
		if err := sink.Render(sink.NewTextDisplay(p.preview), result, n); err != nil {
			return wrap.Error(err, "failed to render preview")
		}
	}

	if dest := p.config.Output.Destination; dest != "" {
		if err := sink.Export(ctx, result, dest, ExportOptions(p.config)); err != nil {
			return wrap.Error(err, "failed to export result")
		}
		p.stats.RowsExported = result.Len()
	}

	return nil
}

// LoadSource загружает таблицу из источника, заданного в конфигурации
func LoadSource(ctx context.Context, cfg *config.Config) (*table.Table, error) {
	src := cfg.Source
	db := cfg.Database.AdapterConfig()

	switch {
	case src.File != "":
		return loader.LoadFile(ctx, src.File, FileOptions(cfg))
	case src.Query != "":
		return loader.LoadQuery(ctx, db, src.Query)
	case src.Table != "":
		return loader.LoadTable(ctx, db, src.Table)
	}
	return nil, fmt.Errorf("no source configured")
}

// publishResult отправляет итог в журнал результатов. Ошибка публикации
// не меняет результат задания.
func (p *Processor) publishResult(ctx context.Context, runErr error) {
	pub := p.publisher
	if pub == nil {
		if !p.config.ResultLog.Enabled() {
			return
		}
		redisPub, err := resultlog.NewRedisPublisher(p.config.ResultLog)
		if err != nil {
			logging.FromContext(ctx).Warn("result log unavailable", "error", err)
			return
		}
		defer redisPub.Close()
		pub = redisPub
	}

	result := resultlog.Result{
		Job:          p.config.Name,
		RunID:        p.stats.RunID,
		StartedAt:    p.stats.StartTime,
		FinishedAt:   p.stats.EndTime,
		DurationMs:   p.stats.Duration.Milliseconds(),
		RowsLoaded:   p.stats.RowsLoaded,
		RowsExported: p.stats.RowsExported,
	}
	result.SetError(runErr)

	err := retry.Do(ctx, p.config.Output.Retry, "result publish", func(ctx context.Context) error {
		return pub.Publish(ctx, result)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("failed to publish job result", "error", err)
	}
}

// GetStats возвращает статистику последнего выполнения
func (p *Processor) GetStats() ProcessorStats {
	return p.stats
}

// GetConfig возвращает конфигурацию процессора
func (p *Processor) GetConfig() *config.Config {
	return p.config
}
