package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "candidate-matcher"
	envPrefix = "MATCHER"
)

type Config struct {
	Listen   string         `mapstructure:"listen"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	AI       AIConfig       `mapstructure:"ai"`
}

type UpstreamConfig struct {
	ProfilesURL     string        `mapstructure:"profiles-url"`
	AvailabilityURL string        `mapstructure:"availability-url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max-retries"`
	UserAgent       string        `mapstructure:"user-agent"`
}

type CacheConfig struct {
	TTL    time.Duration `mapstructure:"ttl"`
	Dedupe bool          `mapstructure:"dedupe"`
}

type RankingConfig struct {
	PageSize int `mapstructure:"page-size"`
}

type HTTPConfig struct {
	RateLimitPerMin int      `mapstructure:"rate-limit-per-min"`
	CORSOrigins     []string `mapstructure:"cors-origins"`
}

type AIConfig struct {
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string  `mapstructure:"api-key-file"`
	APIKey       string  `mapstructure:"api-key"`
	Model        string  `mapstructure:"model"`
	MaxRetries   int     `mapstructure:"max-retries"`
	Temperature  float32 `mapstructure:"temperature"`
	MaxLogLength int     `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "candidate-matcher ranks consultant profiles against hiring queries and explains them in a chat",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", envPrefix+"_AI_GEMINI_API_KEY_FILE", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is candidate-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("listen", ":8080")
	viper.SetDefault("upstream.profiles-url", "https://hackathon-test.azure-api.net/profiles/")
	viper.SetDefault("upstream.availability-url", "https://hackathon-test.azure-api.net/availability")
	viper.SetDefault("upstream.timeout", 10*time.Second)
	viper.SetDefault("upstream.max-retries", 2)
	viper.SetDefault("upstream.user-agent", app)
	viper.SetDefault("cache.ttl", 5*time.Minute)
	viper.SetDefault("cache.dedupe", false)
	viper.SetDefault("ranking.page-size", 10)
	viper.SetDefault("http.rate-limit-per-min", 60)
	viper.SetDefault("http.cors-origins", []string{"*"})
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key", "")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 2)
	viper.SetDefault("ai.gemini.temperature", 0.7)
	viper.SetDefault("ai.gemini.max-log-length", 200)
}

func initConfig() {
	// A missing .env file is fine; its values only seed the environment.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// We can't proceed if the config file parsed with error. Running without
	// a file is allowed unless one was asked for explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
