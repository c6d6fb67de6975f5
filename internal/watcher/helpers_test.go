package watcher

import (
	"bytes"
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/ryan-gang/screen-watcher/internal/capture"
	"github.com/ryan-gang/screen-watcher/internal/logger"
	"github.com/ryan-gang/screen-watcher/internal/mail"
	"github.com/spf13/afero"
)

const waitTimeout = 2 * time.Second

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type fakeGrabber struct {
	mu        sync.Mutex
	calls     int
	active    int
	maxActive int
	err       error
	panicMsg  string
	hold      chan struct{}
}

func (g *fakeGrabber) Grab(ctx context.Context) (image.Image, error) {
	g.mu.Lock()
	g.calls++
	g.active++
	if g.active > g.maxActive {
		g.maxActive = g.active
	}
	err, panicMsg, hold := g.err, g.panicMsg, g.hold
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.active--
		g.mu.Unlock()
	}()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if panicMsg != "" {
		panic(panicMsg)
	}
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
}

func (g *fakeGrabber) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGrabber) MaxActive() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxActive
}

type fakeSender struct {
	mu        sync.Mutex
	file      *capture.File
	msgs      []mail.Message
	fileSeen  []bool
	err       error
	blockSend bool
	sending   chan struct{}
	// stuck, when set, holds Send until closed regardless of ctx.
	stuck chan struct{}
}

func (s *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.fileSeen = append(s.fileSeen, s.file.Exists())
	err, block, sending, stuck := s.err, s.blockSend, s.sending, s.stuck
	s.mu.Unlock()

	if sending != nil {
		sending <- struct{}{}
	}
	if stuck != nil {
		<-stuck
		return ctx.Err()
	}
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (s *fakeSender) Messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.msgs...)
}

// fakeClock hands out one shared tick channel and reports every wait request.
type fakeClock struct {
	now   time.Time
	tick  chan time.Time
	waits chan time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:   time.Date(2024, time.March, 9, 17, 5, 42, 0, time.Local),
		tick:  make(chan time.Time),
		waits: make(chan time.Duration, 16),
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits <- d
	return c.tick
}

func (c *fakeClock) expectWait(t *testing.T) time.Duration {
	t.Helper()
	select {
	case d := <-c.waits:
		return d
	case <-time.After(waitTimeout):
		t.Fatal("worker never started waiting")
		return 0
	}
}

func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	select {
	case c.tick <- c.now:
	case <-time.After(waitTimeout):
		t.Fatal("worker was not waiting")
	}
}

type fixture struct {
	grabber *fakeGrabber
	sender  *fakeSender
	file    *capture.File
	clock   *fakeClock
	logs    *syncBuffer
	deps    Deps
}

func newFixture() *fixture {
	file := capture.NewFile(afero.NewMemMapFs(), "Screenshot.png")
	f := &fixture{
		grabber: &fakeGrabber{},
		sender:  &fakeSender{file: file},
		file:    file,
		clock:   newFakeClock(),
		logs:    &syncBuffer{},
	}
	f.deps = Deps{
		Grabber: f.grabber,
		File:    file,
		Sender:  f.sender,
		Envelope: Envelope{
			From:    "from@example.com",
			To:      "to@example.com",
			Subject: "screenWatcher",
		},
		Logger: logger.New(f.logs, "debug"),
		Now:    f.clock.Now,
		After:  f.clock.After,
	}
	return f
}

var errUnauthorized = errors.New("HTTP Error 401: Unauthorized")

func (g *fakeGrabber) mustGrab(t *testing.T) image.Image {
	t.Helper()
	img, err := g.Grab(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return img
}
