package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"kpicli/internal/dataprocessing"
	"kpicli/internal/errors"
	"kpicli/internal/exporter"
	"kpicli/internal/infrastructure"
	"kpicli/internal/source"
	"kpicli/pkg/contracts/domain"
)

// Dependencies holds the collaborators a pipeline run needs. Tracer and
// Logger are optional; nil means no-op tracing and the default logger.
type Dependencies struct {
	Source     source.Source
	Processor  *dataprocessing.Processor
	Converter  *dataprocessing.Converter
	Calculator *dataprocessing.Calculator
	Summarizer *dataprocessing.Summarizer
	Exporter   *exporter.Exporter
	Tracer     trace.Tracer
	Logger     *slog.Logger
}

// Pipeline drives one run through the stage sequence. It is not safe for
// concurrent use; a run is a single-goroutine affair with concurrent work
// confined to the export writers.
type Pipeline struct {
	deps   Dependencies
	state  *RunState
	logger *slog.Logger

	grid    domain.RawGrid
	cleaned *dataprocessing.WideTable
	dataset *dataprocessing.Dataset
}

// NewPipeline creates a pipeline with a fresh run state.
func NewPipeline(deps Dependencies) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer("")
	}

	state := NewRunState()
	return &Pipeline{
		deps:   deps,
		state:  state,
		logger: deps.Logger.With(slog.String("run_id", state.ID)),
	}
}

// State returns the run state for reporting.
func (p *Pipeline) State() *RunState {
	return p.state
}

// Dataset returns the finished dataset; nil before enrichment.
func (p *Pipeline) Dataset() *dataprocessing.Dataset {
	return p.dataset
}

// Run executes the full stage sequence and returns the finished dataset.
func (p *Pipeline) Run(ctx context.Context) (*dataprocessing.Dataset, error) {
	ctx, span := p.deps.Tracer.Start(ctx, "pipeline.run")
	defer span.End()

	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"run.id": p.state.ID,
	})

	if err := p.Load(ctx); err != nil {
		return nil, err
	}
	if err := p.Clean(ctx); err != nil {
		return nil, err
	}
	if err := p.Enrich(ctx); err != nil {
		return nil, err
	}
	if _, err := p.Summarize(ctx); err != nil {
		return nil, err
	}
	if err := p.Export(ctx); err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.Duration("duration", p.state.Duration()),
		slog.Int("periods", len(p.dataset.Base)))

	return p.dataset, nil
}

// Load fetches the raw grid from the source. Loading again restarts the run:
// any cleaned or enriched data is discarded.
func (p *Pipeline) Load(ctx context.Context) error {
	return p.runStage(ctx, "load", func(ctx context.Context) error {
		grid, err := p.deps.Source.Load(ctx)
		if err != nil {
			return err
		}

		p.grid = grid
		p.cleaned = nil
		p.dataset = nil
		p.state.Advance(StatusLoaded)
		return nil
	})
}

// Clean parses headers, standardizes metric names and normalizes cells.
func (p *Pipeline) Clean(ctx context.Context) error {
	if !p.state.AtLeast(StatusLoaded) {
		return errors.NewPreconditionError("cannot clean before loading data")
	}

	return p.runStage(ctx, "clean", func(ctx context.Context) error {
		table, err := p.deps.Processor.Clean(ctx, p.grid)
		if err != nil {
			return err
		}

		p.cleaned = table
		p.dataset = nil
		p.state.Advance(StatusCleaned)
		return nil
	})
}

// Enrich converts currency, computes the derived metrics and checks period
// continuity, producing the run's dataset.
func (p *Pipeline) Enrich(ctx context.Context) error {
	if !p.state.AtLeast(StatusCleaned) {
		return errors.NewPreconditionError("cannot enrich before cleaning data")
	}

	return p.runStage(ctx, "enrich", func(ctx context.Context) error {
		eur := p.deps.Converter.Convert(ctx, p.cleaned)

		rows := p.deps.Calculator.PeriodRows(p.cleaned)
		rows = p.deps.Calculator.Enrich(ctx, rows)

		continuity := dataprocessing.CheckContinuity(p.cleaned.Periods)
		if !continuity.Consecutive() {
			p.logger.WarnContext(ctx, "period axis has gaps",
				slog.Int("gap_count", len(continuity.Gaps)))
		}

		p.dataset = &dataprocessing.Dataset{
			USD:        p.cleaned,
			EUR:        eur,
			Base:       rows,
			Continuity: continuity,
		}
		p.state.Advance(StatusEnriched)
		return nil
	})
}

// Summarize computes the aggregate statistics over the enriched dataset.
func (p *Pipeline) Summarize(ctx context.Context) (*domain.SummaryStats, error) {
	if !p.state.AtLeast(StatusEnriched) {
		return nil, errors.NewPreconditionError("cannot summarize before enriching data")
	}

	var stats *domain.SummaryStats
	err := p.runStage(ctx, "summarize", func(ctx context.Context) error {
		s, err := p.deps.Summarizer.Summarize(ctx, p.dataset.Base)
		if err != nil {
			return err
		}
		stats = s
		p.dataset.Summary = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Export writes the output artifacts. The summary is computed first if the
// caller skipped Summarize.
func (p *Pipeline) Export(ctx context.Context) error {
	if !p.state.AtLeast(StatusEnriched) {
		return errors.NewPreconditionError("cannot export before enriching data")
	}

	if p.dataset.Summary == nil {
		if _, err := p.Summarize(ctx); err != nil {
			return err
		}
	}

	return p.runStage(ctx, "export", func(ctx context.Context) error {
		if err := p.deps.Exporter.WriteAll(ctx, p.dataset); err != nil {
			return err
		}
		p.state.Advance(StatusExported)
		return nil
	})
}

// runStage wraps one stage with a span, timing and failure recording.
func (p *Pipeline) runStage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := p.deps.Tracer.Start(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	p.logger.InfoContext(ctx, "stage started", slog.String("stage", name))

	err := fn(ctx)
	duration := time.Since(start)
	p.state.RecordStage(name, start, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.state.Fail(err)
		p.logger.ErrorContext(ctx, "stage failed",
			slog.String("stage", name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return err
	}

	p.logger.InfoContext(ctx, "stage completed",
		slog.String("stage", name),
		slog.Duration("duration", duration))
	return nil
}
