package cmd

import (
	"errors"

	"github.com/ryan-gang/screen-watcher/internal/cmdutil"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/ryan-gang/screen-watcher/internal/watcher"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Capture and email the screen once",
	Long:  `Run a single capture and send cycle, useful for checking credentials before leaving the watcher running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := cmdutil.Setup(cmd)
		if err != nil {
			return err
		}
		defer log.Close()

		deps, err := cmdutil.BuildDeps(cfg, log)
		if err != nil {
			return util.Wrap(util.ConfigError, "building mail sender", err)
		}

		w, err := watcher.NewWorker(watcher.DefaultInterval, deps)
		if err != nil {
			return util.Wrap(util.WatcherError, "creating worker", err)
		}
		if err := w.RunOnce(cmd.Context()); err != nil {
			return util.Wrap(cycleErrorContext(err), "sending screenshot", err)
		}
		util.GreenBold.Printf("Screenshot sent to %s\n", cfg.ToEmail)
		return nil
	},
}

// cycleErrorContext tells a failed grab apart from a failed delivery.
func cycleErrorContext(err error) util.ErrorContext {
	switch {
	case errors.Is(err, watcher.ErrCapture):
		return util.CaptureError
	case errors.Is(err, watcher.ErrSend):
		return util.MailError
	default:
		return util.WatcherError
	}
}
