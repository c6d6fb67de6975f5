package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Provider selects the backend used to deliver screenshots.
type Provider string

const (
	ProviderSendGrid Provider = "sendgrid"
	ProviderSMTP     Provider = "smtp"
)

const (
	EnvFileName         = ".env"
	DefaultCapturePath  = "Screenshot.png"
	DefaultSubject      = "screenWatcher"
	DefaultSendGridHost = "https://api.sendgrid.com"
	DefaultSMTPPort     = 587
)

// Environment variable names.
const (
	EnvSendGridAPIKey = "SENDGRID_API_KEY"
	EnvFromEmail      = "FROM_EMAIL"
	EnvToEmail        = "TO_EMAIL"
	EnvMailProvider   = "MAIL_PROVIDER"
	EnvSendGridHost   = "SENDGRID_HOST"
	EnvSMTPHost       = "SMTP_HOST"
	EnvSMTPPort       = "SMTP_PORT"
	EnvSMTPUser       = "SMTP_USER"
	EnvSMTPPassword   = "SMTP_PASSWORD"
	EnvCapturePath    = "CAPTURE_PATH"
	EnvCaptureDisplay = "CAPTURE_DISPLAY"
	EnvMailSubject    = "MAIL_SUBJECT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFile        = "LOG_FILE"
)

var envBindings = map[string]string{
	"sendgrid_api_key": EnvSendGridAPIKey,
	"from_email":       EnvFromEmail,
	"to_email":         EnvToEmail,
	"mail_provider":    EnvMailProvider,
	"sendgrid_host":    EnvSendGridHost,
	"smtp_host":        EnvSMTPHost,
	"smtp_port":        EnvSMTPPort,
	"smtp_user":        EnvSMTPUser,
	"smtp_password":    EnvSMTPPassword,
	"capture_path":     EnvCapturePath,
	"capture_display":  EnvCaptureDisplay,
	"mail_subject":     EnvMailSubject,
	"log_level":        EnvLogLevel,
	"log_file":         EnvLogFile,
}

// Config is read once at startup and handed to whatever needs it.
type Config struct {
	SendGridAPIKey string
	FromEmail      string
	ToEmail        string

	MailProvider Provider
	SendGridHost string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	CapturePath    string
	CaptureDisplay int
	Subject        string

	LogLevel string
	LogFile  string
}

// DefaultEnvPath returns the .env next to the executable if there is one,
// otherwise .env in the working directory.
func DefaultEnvPath() string {
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), EnvFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return EnvFileName
}

// Load reads envFile into the process environment (a missing file is fine),
// then resolves every setting from the environment. Variables already set in
// the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	smtpPort, err := intSetting(v, "smtp_port")
	if err != nil {
		return nil, err
	}
	display, err := intSetting(v, "capture_display")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SendGridAPIKey: v.GetString("sendgrid_api_key"),
		FromEmail:      v.GetString("from_email"),
		ToEmail:        v.GetString("to_email"),
		MailProvider:   Provider(strings.ToLower(strings.TrimSpace(v.GetString("mail_provider")))),
		SendGridHost:   v.GetString("sendgrid_host"),
		SMTPHost:       v.GetString("smtp_host"),
		SMTPPort:       smtpPort,
		SMTPUser:       v.GetString("smtp_user"),
		SMTPPassword:   v.GetString("smtp_password"),
		CapturePath:    v.GetString("capture_path"),
		CaptureDisplay: display,
		Subject:        v.GetString("mail_subject"),
		LogLevel:       v.GetString("log_level"),
		LogFile:        v.GetString("log_file"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// intSetting reads key as an integer, naming the variable and the raw value
// when it is not one.
func intSetting(v *viper.Viper, key string) (int, error) {
	raw := v.Get(key)
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", envBindings[key], fmt.Sprint(raw))
	}
	return n, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mail_provider", string(ProviderSendGrid))
	v.SetDefault("sendgrid_host", DefaultSendGridHost)
	v.SetDefault("smtp_port", DefaultSMTPPort)
	v.SetDefault("capture_path", DefaultCapturePath)
	v.SetDefault("capture_display", 0)
	v.SetDefault("mail_subject", DefaultSubject)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
}

// Validate checks the settings that have no sensible fallback. Credentials
// and addresses are deliberately left alone: a bad key shows up as a logged
// send failure, see Missing.
func (c *Config) Validate() error {
	switch c.MailProvider {
	case ProviderSendGrid, ProviderSMTP:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvMailProvider, ProviderSendGrid, ProviderSMTP, c.MailProvider)
	}
	if c.CapturePath == "" {
		return fmt.Errorf("%s must not be empty", EnvCapturePath)
	}
	if c.CaptureDisplay < -1 {
		return fmt.Errorf("%s must be -1 (all displays) or a display index, got %d", EnvCaptureDisplay, c.CaptureDisplay)
	}
	if c.MailProvider == ProviderSMTP && c.SMTPPort <= 0 {
		return fmt.Errorf("%s must be a positive integer", EnvSMTPPort)
	}
	return nil
}

// Missing lists the variables the selected provider needs but that are empty.
func (c *Config) Missing() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	switch c.MailProvider {
	case ProviderSMTP:
		check(EnvSMTPHost, c.SMTPHost)
	default:
		check(EnvSendGridAPIKey, c.SendGridAPIKey)
	}
	check(EnvFromEmail, c.FromEmail)
	check(EnvToEmail, c.ToEmail)
	return missing
}
