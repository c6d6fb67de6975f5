package cmdutil

import (
	"strings"

	"github.com/ryan-gang/screen-watcher/internal/capture"
	"github.com/ryan-gang/screen-watcher/internal/config"
	"github.com/ryan-gang/screen-watcher/internal/logger"
	"github.com/ryan-gang/screen-watcher/internal/mail"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/ryan-gang/screen-watcher/internal/watcher"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// LoadConfigFromFlags loads configuration using the env-file flag from the command
func LoadConfigFromFlags(cmd *cobra.Command) (*config.Config, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return nil, err
	}
	return config.Load(envFile)
}

// Setup loads configuration and the logger. The caller closes the logger.
func Setup(cmd *cobra.Command) (*config.Config, logger.LoggerInterface, error) {
	cfg, err := LoadConfigFromFlags(cmd)
	if err != nil {
		return nil, nil, util.Wrap(util.ConfigError, "loading configuration", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, nil, util.Wrap(util.ConfigError, "creating logger", err)
	}

	WarnMissing(cfg, log)
	return cfg, log, nil
}

// WarnMissing reports empty credentials up front. Sending still goes ahead and
// fails per cycle, the same as with a wrong key.
func WarnMissing(cfg *config.Config, log logger.LoggerInterface) {
	if missing := cfg.Missing(); len(missing) > 0 {
		log.Warnf("Not configured: %s (run 'screen-watcher configure')", strings.Join(missing, ", "))
	}
}

// BuildDeps wires the real screen, filesystem and mail backend.
func BuildDeps(cfg *config.Config, log logger.LoggerInterface) (watcher.Deps, error) {
	sender, err := mail.NewMailSender(cfg)
	if err != nil {
		return watcher.Deps{}, err
	}
	return watcher.Deps{
		Grabber: capture.NewScreenGrabber(cfg.CaptureDisplay),
		File:    capture.NewFile(afero.NewOsFs(), cfg.CapturePath),
		Sender:  sender,
		Envelope: watcher.Envelope{
			From:    cfg.FromEmail,
			To:      cfg.ToEmail,
			Subject: cfg.Subject,
		},
		Logger: log,
	}, nil
}
