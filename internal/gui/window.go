// Package gui is the small desktop window that drives a watcher.Controller.
package gui

import (
	"context"
	"errors"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ryan-gang/screen-watcher/internal/logger"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/ryan-gang/screen-watcher/internal/watcher"
)

const (
	AppID       = "com.github.ryan-gang.screen-watcher"
	WindowTitle = "screenWatcher"

	closeTimeout = 10 * time.Second
)

// Window binds the interval selector and the Start/Stop buttons to a controller.
type Window struct {
	app    fyne.App
	win    fyne.Window
	ctrl   *watcher.Controller
	log    logger.LoggerInterface
	view   *view
	closed bool
}

// view holds the widgets whose enablement follows watcher.State.
type view struct {
	interval *widget.Select
	start    *widget.Button
	stop     *widget.Button
}

// apply must be called on the UI goroutine.
func (v *view) apply(s watcher.State) {
	setEnabled(v.interval, s.IntervalEnabled)
	setEnabled(v.start, s.StartEnabled)
	setEnabled(v.stop, s.StopEnabled)
}

type disableable interface {
	Enable()
	Disable()
}

func setEnabled(w disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

// New builds the window on a. The caller owns a and usually gets it from
// app.NewWithID(AppID).
func New(a fyne.App, ctrl *watcher.Controller, log logger.LoggerInterface) *Window {
	w := &Window{
		app:  a,
		win:  a.NewWindow(WindowTitle),
		ctrl: ctrl,
		log:  log,
	}
	w.build()
	return w
}

func (w *Window) build() {
	v := &view{}
	v.interval = widget.NewSelect(watcher.IntervalLabels(), nil)
	v.interval.SetSelected(watcher.DefaultInterval.String())

	v.start = widget.NewButtonWithIcon("Start", theme.MediaPlayIcon(), w.startWatching)
	v.stop = widget.NewButtonWithIcon("Stop", theme.MediaStopIcon(), w.ctrl.Stop)
	w.view = v
	v.apply(w.ctrl.State())

	w.ctrl.OnChange(func(s watcher.State) {
		fyne.Do(func() { v.apply(s) })
	})

	quit := fyne.NewMenuItem("Quit", w.quit)
	quit.IsQuit = true
	quitShortcut := &desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: fyne.KeyModifierShortcutDefault}
	quit.Shortcut = quitShortcut
	w.win.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", quit)))
	w.win.Canvas().AddShortcut(quitShortcut, func(fyne.Shortcut) { w.quit() })
	w.win.SetCloseIntercept(w.quit)

	toolbar := container.NewHBox(v.start, v.stop)
	form := container.New(layout.NewFormLayout(), widget.NewLabel("Interval:"), v.interval)
	w.win.SetContent(container.NewVBox(toolbar, form))
	w.win.Resize(fyne.NewSize(260, 115))
	w.win.SetFixedSize(true)
}

func (w *Window) startWatching() {
	iv, err := watcher.ParseInterval(w.view.interval.Selected)
	if err != nil {
		w.reportStartError(err)
		return
	}
	// Start may block briefly while a previous worker winds down.
	go func() {
		if err := w.ctrl.Start(iv); err != nil && !errors.Is(err, watcher.ErrClosed) {
			w.reportStartError(err)
		}
	}()
}

func (w *Window) reportStartError(err error) {
	w.log.Error(util.FormatError(util.GUIError, "starting watcher", err))
}

func (w *Window) quit() {
	if w.closed {
		return
	}
	w.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := w.ctrl.Close(ctx); err != nil {
		w.log.Warnf("Closing: %v", err)
	}
	w.app.Quit()
}

// ShowAndRun blocks until the window is closed.
func (w *Window) ShowAndRun() {
	w.win.ShowAndRun()
}
