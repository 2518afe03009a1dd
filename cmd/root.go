package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "sc2-backend"

type Config struct {
	Listen string        `mapstructure:"listen"`
	AI     *AIConfig     `mapstructure:"ai"`
	Search *SearchConfig `mapstructure:"search"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	// APIKey is excluded from the debug config dump.
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type SearchConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	Region     string        `mapstructure:"region"`
	MaxResults int           `mapstructure:"max-results"`
	Pause      time.Duration `mapstructure:"pause"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "sc2-backend is the campus placement assistant: eligibility checks, resume analysis, interview prep and study plans",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("listen", "SC2_LISTEN_ADDR"); err != nil {
		log.Fatalf("binding SC2_LISTEN_ADDR environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	viper.SetDefault("listen", ":8080")
	viper.SetDefault("ai.enabled", true)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is sc2-backend.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the serve and check commands.
	if serveCmd.CalledAs() == "" && checkCmd.CalledAs() == "" {
		return
	}

	// Deployments commonly pass the API key through a .env file; load it
	// before viper looks anywhere else.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Only an explicitly requested config file is mandatory: both
		// commands can run on flags and environment variables alone.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Listen == "" {
		config.Listen = viper.GetString("listen")
	}

	return config, nil
}
