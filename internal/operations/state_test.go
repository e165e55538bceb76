package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStateTransitions(t *testing.T) {
	state := NewRunState()
	require.NotEmpty(t, state.ID)
	assert.Equal(t, StatusUninitialized, state.CurrentStatus())

	state.Advance(StatusLoaded)
	assert.True(t, state.AtLeast(StatusLoaded))
	assert.False(t, state.AtLeast(StatusCleaned))

	state.Advance(StatusCleaned)
	state.Advance(StatusEnriched)
	assert.True(t, state.AtLeast(StatusLoaded))
	assert.True(t, state.AtLeast(StatusEnriched))

	state.Advance(StatusExported)
	assert.Equal(t, StatusExported, state.CurrentStatus())
	require.NotNil(t, state.EndTime)
}

func TestRunStateReloadMovesBackwards(t *testing.T) {
	state := NewRunState()
	state.Advance(StatusEnriched)
	state.Advance(StatusLoaded)

	assert.True(t, state.AtLeast(StatusLoaded))
	assert.False(t, state.AtLeast(StatusCleaned))
}

func TestRunStateReloadAfterExportClearsEndTime(t *testing.T) {
	state := NewRunState()
	state.Advance(StatusExported)
	require.NotNil(t, state.EndTime)
	finished := state.Duration()

	state.Advance(StatusLoaded)
	assert.Nil(t, state.EndTime)
	// Duration measures the run in progress again, not the finished span.
	assert.GreaterOrEqual(t, state.Duration(), finished)
}

func TestRunStateFail(t *testing.T) {
	state := NewRunState()
	state.Advance(StatusLoaded)

	first := errors.New("boom")
	state.Fail(first)
	state.Fail(errors.New("later"))

	assert.Equal(t, StatusFailed, state.CurrentStatus())
	assert.Equal(t, first, state.Err)
	assert.False(t, state.AtLeast(StatusUninitialized))
}

func TestRunStateRecordStage(t *testing.T) {
	state := NewRunState()
	start := time.Now()

	state.RecordStage("load", start, 5*time.Millisecond, nil)
	state.RecordStage("clean", start, time.Millisecond, errors.New("bad grid"))

	results := state.StageResults()
	require.Len(t, results, 2)
	assert.Equal(t, "load", results[0].Name)
	assert.Empty(t, results[0].Error)
	assert.Equal(t, "bad grid", results[1].Error)
}
