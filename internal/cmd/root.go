package cmd

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kimmyTSUI/agent-story/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "agent-story",
	Short: "Automated turtle soup deduction games between language model agents",
	Long: `Agent-story plays turtle soup (海龟汤), the lateral-thinking game: a
host knows a hidden story and answers only 是, 否 or 不相关; players take
turns questioning and guessing until someone reconstructs the truth or
the round budget runs out. Finished games are scored and saved as JSON
records.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/agent-story/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// API keys usually live in a .env next to the project; a missing
	// file is fine.
	_ = godotenv.Load()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/agent-story")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("AGENTSTORY")
	// Replace dots with underscores for nested keys in env vars
	// e.g., AGENTSTORY_PROVIDER_NAME for provider.name
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
