package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ryan-gang/screen-watcher/internal/logger"
)

// ErrClosed is returned by Start once Close has been called.
var ErrClosed = errors.New("watcher controller closed")

// State is what the window needs to enable or disable its controls.
type State struct {
	Running         bool
	Interval        Interval
	IntervalEnabled bool
	StartEnabled    bool
	StopEnabled     bool
}

func idleState(iv Interval) State {
	return State{Interval: iv, IntervalEnabled: true, StartEnabled: true}
}

func runningState(iv Interval) State {
	return State{Running: true, Interval: iv, StopEnabled: true}
}

// Controller owns at most one Worker. Starting a new worker first stops and
// joins the previous one, so two cycles never share the capture file.
type Controller struct {
	deps Deps
	log  logger.LoggerInterface

	// lifecycle is a one-slot semaphore serializing Start and Close. Close
	// acquires it under its own deadline.
	lifecycle chan struct{}

	mu       sync.Mutex
	closed   bool
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(State)
}

func NewController(deps Deps) *Controller {
	return &Controller{
		deps:      deps,
		log:       deps.Logger,
		lifecycle: make(chan struct{}, 1),
		state:     idleState(DefaultInterval),
	}
}

// OnChange registers fn to be called after every state transition. fn may be
// called from the worker goroutine.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start launches a worker for interval and returns without waiting for it.
// It fails with ErrClosed after Close.
func (c *Controller) Start(interval Interval) error {
	if !interval.Valid() {
		return fmt.Errorf("unsupported interval %d", int(interval))
	}
	if c.isClosed() {
		return ErrClosed
	}

	if err := c.acquire(context.Background()); err != nil {
		return err
	}
	defer c.release()

	if err := c.stopAndWait(context.Background()); err != nil {
		return err
	}

	w, err := NewWorker(interval, c.deps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return ErrClosed
	}
	c.cancel = cancel
	c.done = done
	c.state = runningState(interval)
	state, notify := c.state, c.onChange
	c.mu.Unlock()

	if notify != nil {
		notify(state)
	}
	c.log.Infof("Start (%s)", interval)

	go c.run(ctx, cancel, w, done)
	return nil
}

// Stop asks the running worker to finish. It does not wait; use Wait for that.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current worker, if any, has finished.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close stops the worker, waits for it within ctx, and removes any capture
// file left behind. Later calls to Start fail.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	// A Start in progress may be joining a slow worker while holding the
	// lifecycle slot. Cancel whatever runs now so it winds down meanwhile.
	c.Stop()
	if err := c.acquire(ctx); err != nil {
		return err
	}
	defer c.release()

	err := c.stopAndWait(ctx)
	if rmErr := c.deps.File.Remove(); rmErr != nil {
		c.log.Warnf("Could not remove capture: %v", rmErr)
	}
	return err
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) acquire(ctx context.Context) error {
	select {
	case c.lifecycle <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for watcher to stop: %w", ctx.Err())
	}
}

func (c *Controller) release() {
	<-c.lifecycle
}

func (c *Controller) stopAndWait(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for watcher to stop: %w", ctx.Err())
	}
}

func (c *Controller) run(ctx context.Context, cancel context.CancelFunc, w *Worker, done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("Watcher %s crashed: %v", w.ID(), r)
		}
		cancel()
		c.finished(done)
	}()
	w.Run(ctx)
}

// finished runs exactly once per worker.
func (c *Controller) finished(done chan struct{}) {
	if err := c.deps.File.Remove(); err != nil {
		c.log.Warnf("Could not remove capture: %v", err)
	}

	c.mu.Lock()
	if c.done == done {
		c.cancel = nil
		c.done = nil
	}
	c.state = idleState(c.state.Interval)
	state, notify := c.state, c.onChange
	c.mu.Unlock()

	c.log.Info("Stop")
	if notify != nil {
		notify(state)
	}
	close(done)
}
