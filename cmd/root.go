package cmd

import (
	"errors"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/ryan-gang/screen-watcher/internal/cmdutil"
	"github.com/ryan-gang/screen-watcher/internal/config"
	"github.com/ryan-gang/screen-watcher/internal/gui"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/ryan-gang/screen-watcher/internal/watcher"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().String("env-file", config.DefaultEnvPath(), "Path to the .env file holding credentials")
}

var rootCmd = &cobra.Command{
	Use:   "screen-watcher",
	Short: "Periodically email a screenshot of the desktop",
	Long: `screen-watcher takes a screenshot of the desktop at a fixed interval and
emails it as an inline image. Without a subcommand it opens a small window with
Start/Stop controls and an interval selector.

Credentials are read from the environment or a .env file:
  SENDGRID_API_KEY, FROM_EMAIL, TO_EMAIL`,
	SilenceUsage:  true,
	SilenceErrors: true,
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

		ctrl := watcher.NewController(deps)
		gui.New(app.NewWithID(gui.AppID), ctrl, log).ShowAndRun()
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var tagged *util.Error
		if errors.As(err, &tagged) {
			util.Red.Println(err)
		} else {
			util.LogError(util.ValidationError, "parsing command line", err)
		}
		os.Exit(1)
	}
}
