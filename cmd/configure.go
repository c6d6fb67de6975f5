package cmd

import (
	"github.com/ryan-gang/screen-watcher/internal/config"
	"github.com/ryan-gang/screen-watcher/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

type prompt struct {
	key    string
	label  string
	secret bool
}

var sendGridPrompts = []prompt{
	{config.EnvSendGridAPIKey, "SendGrid API key", true},
	{config.EnvFromEmail, "Sender address (must be a verified SendGrid sender)", false},
	{config.EnvToEmail, "Recipient address", false},
}

var smtpPrompts = []prompt{
	{config.EnvSMTPHost, "SMTP server (eg. smtp.gmail.com)", false},
	{config.EnvSMTPPort, "SMTP port (usually 587 or 465)", false},
	{config.EnvSMTPUser, "SMTP username", false},
	{config.EnvSMTPPassword, "SMTP password", true},
	{config.EnvFromEmail, "Sender address", false},
	{config.EnvToEmail, "Recipient address", false},
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write credentials to the .env file",
	Long: `Interactively create or update the .env file read at startup. Press enter
to keep the current value of a setting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		values, err := config.ReadEnvFile(envFile)
		if err != nil {
			return util.Wrap(util.ConfigError, "reading env file", err)
		}
		if len(values) == 0 {
			util.CyanBold.Println("Creating new configuration...")
		} else {
			util.CyanBold.Println("Updating existing configuration...")
		}

		provider := values[config.EnvMailProvider]
		if provider == "" {
			provider = string(config.ProviderSendGrid)
		}
		util.Cyan.Printf("Mail provider, sendgrid or smtp (current: %s): ", provider)
		provider = util.ScanlineDefault(provider)
		values[config.EnvMailProvider] = provider

		prompts := sendGridPrompts
		if config.Provider(provider) == config.ProviderSMTP {
			prompts = smtpPrompts
		}
		for _, p := range prompts {
			current := values[p.key]
			shown := current
			if p.secret && current != "" {
				shown = "********"
			}
			util.Cyan.Printf("%s (current: %s): ", p.label, shown)
			values[p.key] = util.ScanlineDefault(current)
		}

		if err := config.SaveEnvFile(envFile, values); err != nil {
			return util.Wrap(util.ConfigError, "saving env file", err)
		}
		util.Green.Printf("Configuration saved to %s\n", envFile)

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Println("- Run 'screen-watcher send' to check that a screenshot arrives")
		util.Cyan.Println("- Run 'screen-watcher' to open the window, or 'screen-watcher watch' to run headless")
		return nil
	},
}
