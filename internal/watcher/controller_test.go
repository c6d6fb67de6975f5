package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stateRecorder struct {
	mu     sync.Mutex
	states []State
}

func (r *stateRecorder) record(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *stateRecorder) all() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func TestControllerInitialState(t *testing.T) {
	c := NewController(newFixture().deps)

	s := c.State()
	assert.False(t, s.Running)
	assert.True(t, s.IntervalEnabled)
	assert.True(t, s.StartEnabled)
	assert.False(t, s.StopEnabled)
	assert.Equal(t, DefaultInterval, s.Interval)
}

func TestControllerStartStopTogglesControls(t *testing.T) {
	for _, iv := range Intervals() {
		t.Run(iv.String(), func(t *testing.T) {
			f := newFixture()
			c := NewController(f.deps)
			rec := &stateRecorder{}
			c.OnChange(rec.record)

			require.NoError(t, c.Start(iv))

			s := c.State()
			assert.True(t, s.Running)
			assert.Equal(t, iv, s.Interval)
			assert.False(t, s.IntervalEnabled)
			assert.False(t, s.StartEnabled)
			assert.True(t, s.StopEnabled)

			assert.Equal(t, iv.Duration(), f.clock.expectWait(t))

			c.Stop()
			c.Wait()

			s = c.State()
			assert.False(t, s.Running)
			assert.Equal(t, iv, s.Interval)
			assert.True(t, s.IntervalEnabled)
			assert.True(t, s.StartEnabled)
			assert.False(t, s.StopEnabled)
			assert.False(t, f.file.Exists())

			states := rec.all()
			require.Len(t, states, 2)
			assert.True(t, states[0].Running)
			assert.False(t, states[1].Running)
		})
	}
}

func TestControllerStopWhenIdle(t *testing.T) {
	c := NewController(newFixture().deps)
	c.Stop()
	c.Stop()
	c.Wait()
	assert.False(t, c.State().Running)
}

func TestControllerRejectsUnknownInterval(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)

	require.Error(t, c.Start(Interval(15)))
	assert.False(t, c.State().Running)
	assert.Equal(t, 0, f.grabber.Calls())
}

func TestControllerRestartJoinsPreviousWorker(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)
	rec := &stateRecorder{}
	c.OnChange(rec.record)

	require.NoError(t, c.Start(Interval5))
	assert.Equal(t, 5*time.Minute, f.clock.expectWait(t))

	require.NoError(t, c.Start(Interval30))
	assert.Equal(t, 30*time.Minute, f.clock.expectWait(t))

	assert.Equal(t, 1, f.grabber.MaxActive())
	assert.Equal(t, Interval30, c.State().Interval)
	assert.True(t, c.State().Running)

	// running, idle (old worker finished), running
	states := rec.all()
	require.Len(t, states, 3)
	assert.True(t, states[0].Running)
	assert.False(t, states[1].Running)
	assert.True(t, states[2].Running)

	require.NoError(t, c.Close(context.Background()))
}

func TestControllerRestartWhileCapturing(t *testing.T) {
	f := newFixture()
	f.grabber.hold = make(chan struct{})
	c := NewController(f.deps)

	require.NoError(t, c.Start(Interval5))
	require.Eventually(t, func() bool { return f.grabber.Calls() == 1 }, waitTimeout, time.Millisecond)

	// The first worker is parked inside Grab; restarting must cancel and join it.
	f.grabber.mu.Lock()
	f.grabber.hold = nil
	f.grabber.mu.Unlock()
	require.NoError(t, c.Start(Interval60))

	assert.Equal(t, 60*time.Minute, f.clock.expectWait(t))
	assert.Equal(t, 1, f.grabber.MaxActive())
	require.NoError(t, c.Close(context.Background()))
}

func TestControllerCloseMidCycle(t *testing.T) {
	f := newFixture()
	f.sender.blockSend = true
	f.sender.sending = make(chan struct{}, 1)
	c := NewController(f.deps)

	require.NoError(t, c.Start(Interval120))
	<-f.sender.sending
	assert.True(t, f.file.Exists())

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()
	require.NoError(t, c.Close(ctx))

	assert.False(t, f.file.Exists())
	assert.False(t, c.State().Running)
	assert.True(t, c.State().StartEnabled)
}

func TestControllerCloseRemovesLeftoverFile(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.file.Write(f.grabber.mustGrab(t)))
	c := NewController(f.deps)

	require.NoError(t, c.Close(context.Background()))
	assert.False(t, f.file.Exists())
}

func TestControllerLogsLifecycle(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)

	require.NoError(t, c.Start(Interval5))
	f.clock.expectWait(t)
	c.Stop()
	c.Wait()

	logs := f.logs.String()
	assert.Contains(t, logs, "Start (5 min)")
	assert.Contains(t, logs, "Stop")
}

func TestControllerStartAfterClose(t *testing.T) {
	f := newFixture()
	c := NewController(f.deps)

	require.NoError(t, c.Close(context.Background()))

	err := c.Start(Interval5)
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, c.State().Running)
	assert.Equal(t, 0, f.grabber.Calls())
	assert.False(t, f.file.Exists())
}

func TestControllerCloseWhileStartIsJoining(t *testing.T) {
	f := newFixture()
	f.sender.sending = make(chan struct{}, 1)
	f.sender.stuck = make(chan struct{})
	c := NewController(f.deps)

	require.NoError(t, c.Start(Interval5))
	<-f.sender.sending

	// The restart parks in the join while the old worker is stuck sending.
	restarted := make(chan error, 1)
	go func() { restarted <- c.Start(Interval30) }()
	require.Eventually(t, func() bool { return len(c.lifecycle) == 1 }, waitTimeout, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	began := time.Now()
	err := c.Close(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(began), waitTimeout)

	close(f.sender.stuck)
	select {
	case err := <-restarted:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(waitTimeout):
		t.Fatal("restart never returned")
	}

	c.Wait()
	assert.False(t, c.State().Running)
	assert.Equal(t, 1, f.grabber.Calls())
	assert.False(t, f.file.Exists())
}
