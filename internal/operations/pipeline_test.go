package operations

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpicli/internal/config"
	"kpicli/internal/dataprocessing"
	"kpicli/internal/errors"
	"kpicli/internal/exporter"
	"kpicli/pkg/contracts/domain"
)

// gridSource serves a fixed in-memory grid.
type gridSource struct {
	grid domain.RawGrid
	err  error
}

func (s *gridSource) Load(ctx context.Context) (domain.RawGrid, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.grid, nil
}

func sampleGrid() domain.RawGrid {
	return domain.RawGrid{
		{"Metric", "1/31/2025", "2/28/2025"},
		{"GMV", "$1,000,000", "$1,100,000"},
		{"Funded Amount", "800000", "900000"},
		{"# Invoices", "120", "131"},
		{"Avg Days Outstanding", "18", "22"},
		{"Exch. Rate EUR/USD", "0.92", "0.93"},
	}
}

func newTestPipeline(t *testing.T, src *gridSource) *Pipeline {
	t.Helper()
	return NewPipeline(Dependencies{
		Source:     src,
		Processor:  dataprocessing.NewProcessor(nil, dataprocessing.ProcessorConfig{DefaultYear: 2025}),
		Converter:  dataprocessing.NewConverter(nil),
		Calculator: dataprocessing.NewCalculator(nil),
		Summarizer: dataprocessing.NewSummarizer(nil),
		Exporter:   exporter.NewExporter(config.PathsConfig{ProcessedDir: t.TempDir()}, nil),
	})
}

func TestPipelineRun(t *testing.T) {
	p := newTestPipeline(t, &gridSource{grid: sampleGrid()})

	ds, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusExported, p.State().CurrentStatus())

	require.Len(t, ds.Base, 2)
	jan, feb := ds.Base[0], ds.Base[1]

	// conversion applied once with the per-period rate
	janKey := jan.Period.Key()
	febKey := feb.Period.Key()
	assert.InDelta(t, 920000, ds.EUR.Value(domain.MetricGMV, janKey).Num, 1e-6)
	assert.InDelta(t, 1023000, ds.EUR.Value(domain.MetricGMV, febKey).Num, 1e-6)

	// source table is untouched
	assert.InDelta(t, 1000000, ds.USD.Value(domain.MetricGMV, janKey).Num, 1e-6)

	// counts pass through unconverted
	assert.InDelta(t, 120, ds.EUR.Value(domain.MetricNumInvoices, janKey).Num, 1e-6)

	// derived metrics present on the base rows
	growth, ok := feb.Value(dataprocessing.MetricGMVMoMGrowth).Float()
	require.True(t, ok)
	assert.InDelta(t, 10.0, growth, 1e-6)

	require.NotNil(t, ds.Summary)
	assert.Equal(t, 2, ds.Summary.DataPoints)
	assert.InDelta(t, 2100000, ds.Summary.TotalGMV, 1e-6)
	assert.Equal(t, "January 2025", ds.Summary.Period.Start)

	// every stage ran exactly once
	var names []string
	for _, stage := range p.State().StageResults() {
		names = append(names, stage.Name)
	}
	assert.Equal(t, []string{"load", "clean", "enrich", "summarize", "export"}, names)
}

func TestPipelineRunWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths := config.PathsConfig{ProcessedDir: dir}
	p := NewPipeline(Dependencies{
		Source:     &gridSource{grid: sampleGrid()},
		Processor:  dataprocessing.NewProcessor(nil, dataprocessing.ProcessorConfig{DefaultYear: 2025}),
		Converter:  dataprocessing.NewConverter(nil),
		Calculator: dataprocessing.NewCalculator(nil),
		Summarizer: dataprocessing.NewSummarizer(nil),
		Exporter:   exporter.NewExporter(paths, nil),
	})

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	for _, path := range []string{
		paths.DashboardJSONPath(),
		paths.ProcessedCSVPath(),
		paths.WideCSVPath(),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}
}

func TestPipelineStagePreconditions(t *testing.T) {
	p := newTestPipeline(t, &gridSource{grid: sampleGrid()})
	ctx := context.Background()

	err := p.Clean(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))

	err = p.Enrich(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))

	_, err = p.Summarize(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))

	err = p.Export(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))
}

func TestPipelineReloadInvalidatesDownstream(t *testing.T) {
	p := newTestPipeline(t, &gridSource{grid: sampleGrid()})
	ctx := context.Background()

	_, err := p.Run(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Dataset())

	require.NoError(t, p.Load(ctx))
	assert.Equal(t, StatusLoaded, p.State().CurrentStatus())
	assert.Nil(t, p.Dataset())

	_, err = p.Summarize(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))
}

func TestPipelineLoadFailureMarksRunFailed(t *testing.T) {
	loadErr := errors.NewMissingSourceError("data file not found", nil)
	p := newTestPipeline(t, &gridSource{err: loadErr})

	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeMissingSource))
	assert.Equal(t, StatusFailed, p.State().CurrentStatus())

	// a failed run cannot continue
	err = p.Clean(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypePrecondition))
}
