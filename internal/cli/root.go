package cli

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

// Execute runs the live-quiz command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var (
		port       string
		configPath string
	)

	configDefault := os.Getenv("CONFIG_PATH")
	if configDefault == "" {
		configDefault = defaultConfigPath
	}

	cmd := &cobra.Command{
		Use:   "live-quiz",
		Short: "Hosts live quiz rooms: an admin drives timed questions, participants answer over WebSocket",
		Long: "live-quiz runs quiz rooms addressed by 8 digit codes. Questions come from Postgres, a YAML quiz file\n" +
			"or built-in samples; finished scores are stored in Postgres, Redis or memory.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&port, "port", os.Getenv("PORT"), "listen port; overrides server.port")
	cmd.PersistentFlags().StringVar(&configPath, "config", configDefault, "YAML config file (env CONFIG_PATH)")
	cmd.AddCommand(NewStartCmd(&configPath, &port), NewMigrateCmd(&configPath))
	return cmd
}
