package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configTable() *Table {
	tbl := NewTable("Atributo", "Valor", "Padrões")
	tbl.Append(Text("Voltagem"), Text("110V"), Text("110, 110v"))
	tbl.Append(Text("Cor"), Text("Branco"), Text("branco, branca"))
	tbl.Append(Text("Potência"), Text("500W"), Text("500, 500w"))
	return tbl
}

func staticLoad(data, config *Table) LoadFunc {
	return func(context.Context) (*Table, *Table, error) { return data, config, nil }
}

func waitIdle(t *testing.T, c *Coordinator) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx))
	return c.Status()
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	rejected int
	finished []Status
}

func (o *recordingObserver) JobStarted(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, id)
}

func (o *recordingObserver) JobRejected() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected++
}

func (o *recordingObserver) JobFinished(s Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, s)
}

func TestCoordinator_InitialState(t *testing.T) {
	c := NewCoordinator()

	st := c.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, st.Running())
	assert.Equal(t, 0, st.Progress)
	assert.Nil(t, st.Failure)

	_, ok := c.Result()
	assert.False(t, ok)
	assert.NoError(t, c.Wait(context.Background()))
}

func TestCoordinator_SuccessfulJob(t *testing.T) {
	obs := &recordingObserver{}
	c := NewCoordinator(WithObserver(obs))

	data := productTable(Text("Liquidificador Mondial 110V 500W cor branca"))
	var persisted *Table
	job := Job{
		ID:   "job-1",
		Load: staticLoad(data, configTable()),
		Persist: func(_ context.Context, result *Table) error {
			persisted = result
			return nil
		},
	}

	require.NoError(t, c.Start(context.Background(), job))
	st := waitIdle(t, c)

	assert.Equal(t, StateDone, st.State)
	assert.Equal(t, 100, st.Progress)
	assert.Equal(t, "job-1", st.JobID)
	assert.Equal(t, 1, st.Rows)
	assert.Equal(t, 3, st.Attributes)
	assert.Nil(t, st.Failure)

	result, ok := c.Result()
	require.True(t, ok)
	assert.Same(t, persisted, result)
	assert.Equal(t, Text("110V"), result.Rows[0].Get("Voltagem"))

	assert.Equal(t, []string{"job-1"}, obs.started)
	require.Len(t, obs.finished, 1)
	assert.Equal(t, StateDone, obs.finished[0].State)
}

func TestCoordinator_RejectsSecondStart(t *testing.T) {
	obs := &recordingObserver{}
	c := NewCoordinator(WithObserver(obs))

	release := make(chan struct{})
	loading := make(chan struct{})
	first := Job{
		ID: "first",
		Load: func(context.Context) (*Table, *Table, error) {
			close(loading)
			<-release
			return productTable(Text("110v")), configTable(), nil
		},
	}
	require.NoError(t, c.Start(context.Background(), first))
	<-loading

	secondLoaded := false
	second := Job{
		ID: "second",
		Load: func(context.Context) (*Table, *Table, error) {
			secondLoaded = true
			return nil, nil, errors.New("should not run")
		},
	}
	err := c.Start(context.Background(), second)
	assert.ErrorIs(t, err, ErrJobInProgress)

	st := c.Status()
	assert.Equal(t, "first", st.JobID)
	assert.Equal(t, StateRunning, st.State)
	assert.True(t, st.Running())

	close(release)
	st = waitIdle(t, c)
	assert.Equal(t, "first", st.JobID)
	assert.Equal(t, StateDone, st.State)
	assert.False(t, secondLoaded)
	assert.Equal(t, 1, obs.rejected)
}

func TestCoordinator_ConcurrentStarts(t *testing.T) {
	c := NewCoordinator()
	release := make(chan struct{})
	job := Job{
		Load: func(context.Context) (*Table, *Table, error) {
			<-release
			return productTable(Text("x")), configTable(), nil
		},
	}

	const n = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Start(context.Background(), job); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(release)
	waitIdle(t, c)

	assert.Equal(t, 1, accepted)
}

func TestCoordinator_RestartAfterCompletion(t *testing.T) {
	c := NewCoordinator()

	require.NoError(t, c.Start(context.Background(), Job{ID: "a", Load: staticLoad(productTable(Text("x")), configTable())}))
	waitIdle(t, c)

	require.NoError(t, c.Start(context.Background(), Job{ID: "b", Load: staticLoad(productTable(Text("x")), configTable())}))
	st := waitIdle(t, c)
	assert.Equal(t, "b", st.JobID)
	assert.Equal(t, StateDone, st.State)
}

func TestCoordinator_Failures(t *testing.T) {
	tests := []struct {
		name     string
		job      Job
		wantKind FailureKind
	}{
		{
			name: "load error is an input parse failure",
			job: Job{Load: func(context.Context) (*Table, *Table, error) {
				return nil, nil, errors.New("zip: not a valid zip file")
			}},
			wantKind: FailureInputParse,
		},
		{
			name:     "missing description column",
			job:      Job{Load: staticLoad(NewTable("ID", "Nome"), configTable())},
			wantKind: FailureMissingDescription,
		},
		{
			name:     "missing configuration columns",
			job:      Job{Load: staticLoad(productTable(Text("x")), NewTable("Atributo", "Valor"))},
			wantKind: FailureMissingConfigColumns,
		},
		{
			name: "persist error is an extraction failure",
			job: Job{
				Load: staticLoad(productTable(Text("x")), configTable()),
				Persist: func(context.Context, *Table) error {
					return errors.New("disk full")
				},
			},
			wantKind: FailureExtraction,
		},
		{
			name: "panic is an extraction failure",
			job: Job{Load: func(context.Context) (*Table, *Table, error) {
				panic("unexpected")
			}},
			wantKind: FailureExtraction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCoordinator()
			require.NoError(t, c.Start(context.Background(), tt.job))
			st := waitIdle(t, c)

			assert.Equal(t, StateFailed, st.State)
			assert.False(t, st.Running())
			require.NotNil(t, st.Failure)
			assert.Equal(t, tt.wantKind, st.Failure.Kind)
			assert.NotEmpty(t, st.Failure.UserMessage().Message)

			_, ok := c.Result()
			assert.False(t, ok, "no result is kept on failure")
		})
	}
}

func TestCoordinator_FailureClearedOnNextStart(t *testing.T) {
	c := NewCoordinator()
	require.NoError(t, c.Start(context.Background(), Job{Load: staticLoad(NewTable("x"), configTable())}))
	st := waitIdle(t, c)
	require.Equal(t, StateFailed, st.State)

	require.NoError(t, c.Start(context.Background(), Job{Load: staticLoad(productTable(Text("x")), configTable())}))
	st = waitIdle(t, c)
	assert.Equal(t, StateDone, st.State)
	assert.Nil(t, st.Failure)
}

func TestCoordinator_JobOutlivesRequestContext(t *testing.T) {
	c := NewCoordinator()
	ctx, cancel := context.WithCancel(context.Background())

	release := make(chan struct{})
	job := Job{Load: func(ctx context.Context) (*Table, *Table, error) {
		<-release
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return productTable(Text("x")), configTable(), nil
	}}
	require.NoError(t, c.Start(ctx, job))
	cancel()
	close(release)

	st := waitIdle(t, c)
	assert.Equal(t, StateDone, st.State)
}

func TestCoordinator_WaitHonoursContext(t *testing.T) {
	c := NewCoordinator()
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, c.Start(context.Background(), Job{Load: func(context.Context) (*Table, *Table, error) {
		<-release
		return productTable(Text("x")), configTable(), nil
	}}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
}

func TestCoordinator_InvalidJob(t *testing.T) {
	c := NewCoordinator()
	assert.ErrorIs(t, c.Start(context.Background(), Job{}), ErrInvalidJob)
	assert.Equal(t, StateIdle, c.Status().State)
}
