package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lithammer/dedent"
	"github.com/ryan-gang/screen-watcher/internal/cmdutil"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/ryan-gang/screen-watcher/internal/watcher"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("interval", "i", watcher.DefaultInterval.String(), "Minutes between screenshots: 5, 30, 60 or 120")
}

var exampleWatch = dedent.Dedent(`
	# Email a screenshot every 5 minutes until interrupted
	screen-watcher watch

	# Every two hours, with credentials from a specific file
	screen-watcher watch --interval 120 --env-file ~/.config/screen-watcher/.env`,
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Run the capture loop without a window",
	Long:    `Capture and email the screen at the chosen interval until interrupted with Ctrl+C or SIGTERM.`,
	Example: exampleWatch,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("interval")
		interval, err := watcher.ParseInterval(raw)
		if err != nil {
			return util.Wrap(util.ValidationError, "parsing interval", err)
		}

		cfg, log, err := cmdutil.Setup(cmd)
		if err != nil {
			return err
		}
		defer log.Close()

		deps, err := cmdutil.BuildDeps(cfg, log)
		if err != nil {
			return util.Wrap(util.ConfigError, "building mail sender", err)
		}

		ctrl := watcher.NewController(deps)
		if err := ctrl.Start(interval); err != nil {
			return util.Wrap(util.WatcherError, "starting watcher", err)
		}
		util.GreenBold.Printf("Watching every %s, press Ctrl+C to stop\n", interval)
		util.Cyan.Printf("Capture file: %s\n", cfg.CapturePath)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		finished := make(chan struct{})
		go func() {
			ctrl.Wait()
			close(finished)
		}()

		select {
		case <-ctx.Done():
			util.Cyan.Println("Stopping watcher...")
		case <-finished:
		}

		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := ctrl.Close(closeCtx); err != nil {
			return util.Wrap(util.WatcherError, "stopping watcher", err)
		}
		util.Green.Println("Watcher stopped")
		return nil
	},
}
