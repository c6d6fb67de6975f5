package watcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/ryan-gang/screen-watcher/internal/capture"
	"github.com/ryan-gang/screen-watcher/internal/logger"
	"github.com/ryan-gang/screen-watcher/internal/mail"
)

// Cycle errors wrap one of these so callers can tell which half failed.
var (
	ErrCapture = errors.New("capture")
	ErrSend    = errors.New("send")
)

// Envelope holds the addressing for every message a worker sends.
type Envelope struct {
	From    string
	To      string
	Subject string
}

// Deps are the collaborators shared by every worker a controller creates.
type Deps struct {
	Grabber  capture.Grabber
	File     *capture.File
	Sender   mail.MailSender
	Envelope Envelope
	Logger   logger.LoggerInterface

	// Now and After default to time.Now and time.After.
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// Worker runs the capture, send, cleanup and wait cycle until cancelled.
type Worker struct {
	id       string
	interval Interval
	deps     Deps
	log      logger.LoggerInterface
}

// NewWorker binds deps to a fixed interval. The interval never changes for
// the lifetime of the worker.
func NewWorker(interval Interval, deps Deps) (*Worker, error) {
	if !interval.Valid() {
		return nil, fmt.Errorf("unsupported interval %d", int(interval))
	}
	if deps.Grabber == nil || deps.File == nil || deps.Sender == nil || deps.Logger == nil {
		return nil, errors.New("worker requires a grabber, capture file, sender and logger")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.After == nil {
		deps.After = time.After
	}

	id := uuid.NewString()
	return &Worker{
		id:       id,
		interval: interval,
		deps:     deps,
		log:      deps.Logger.With("worker", id),
	}, nil
}

func (w *Worker) ID() string {
	return w.id
}

func (w *Worker) Interval() Interval {
	return w.interval
}

// Run loops until ctx is cancelled. A failed cycle is logged and the loop
// carries on after the normal wait.
func (w *Worker) Run(ctx context.Context) {
	w.log.Infof("Watching every %s, sending to %s", w.interval, w.deps.Envelope.To)
	for {
		if ctx.Err() != nil {
			w.log.Info("Watcher cancelled")
			return
		}

		if err := w.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				w.log.Info("Watcher cancelled")
				return
			}
			w.log.Errorf("Cycle failed: %v", err)
		}

		select {
		case <-ctx.Done():
			w.log.Info("Watcher cancelled")
			return
		case <-w.deps.After(w.interval.Duration()):
		}
	}
}

// RunOnce performs a single cycle. The capture file is gone when it returns,
// whatever happened, and a panic is returned as an error.
func (w *Worker) RunOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Debugf("recovered panic: %s", debug.Stack())
			err = fmt.Errorf("cycle panicked: %v", r)
		}
	}()
	defer func() {
		if rmErr := w.deps.File.Remove(); rmErr != nil {
			w.log.Warnf("Could not remove capture: %v", rmErr)
		}
	}()

	img, err := w.deps.Grabber.Grab(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}
	if err := w.deps.File.Write(img); err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}
	data, err := w.deps.File.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}

	env := w.deps.Envelope
	msg := mail.ScreenshotMessage(env.From, env.To, env.Subject, w.deps.Now(), data)
	if err := w.deps.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrSend, err)
	}

	w.log.Infof("Email sent to %s", env.To)
	return nil
}
