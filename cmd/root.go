package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobhunt-buddy"

	defaultCheckInterval = 2 * time.Hour
	defaultDataDir       = "data"
)

type Config struct {
	DataDir       string         `mapstructure:"data-dir"`
	CheckInterval time.Duration  `mapstructure:"check-interval"`
	Sources       []SourceConfig `mapstructure:"sources"`
	Options       *OptionsConfig `mapstructure:"options"`
	Storage       *StorageConfig `mapstructure:"storage"`
	NATS          *NATSConfig    `mapstructure:"nats"`
}

// SourceConfig points at one company's JSON job feed.
type SourceConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// OptionsConfig overrides the option universes offered in guided flows.
type OptionsConfig struct {
	Categories []string `mapstructure:"categories"`
	Locations  []string `mapstructure:"locations"`
	Companies  []string `mapstructure:"companies"`
}

type StorageConfig struct {
	// RedisURL switches seen-jobs dedup from the flat file to Redis.
	RedisURL string `mapstructure:"redis-url"`
	// PostgresURL switches preference storage from the flat file to Postgres.
	PostgresURL string `mapstructure:"postgres-url"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// Defaults mirror the option lists the guided flows offer out of the box.
var (
	defaultCategories = []string{
		"software engineer", "frontend", "backend", "full stack",
		"product manager", "marketing", "design", "data scientist",
		"devops", "qa",
	}
	defaultLocations = []string{
		"Remote", "San Francisco", "New York", "Los Angeles",
		"Seattle", "Austin", "Boston", "Chicago",
	}
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobhunt-buddy watches external job feeds and notifies users about postings matching their preferences",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("storage.redis-url", "JOBHUNT_REDIS_URL"); err != nil {
		log.Fatalf("binding JOBHUNT_REDIS_URL environment variable: %v", err)
	}
	if err := viper.BindEnv("storage.postgres-url", "JOBHUNT_POSTGRES_URL"); err != nil {
		log.Fatalf("binding JOBHUNT_POSTGRES_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobhunt-buddy.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("data-dir", defaultDataDir)
	viper.SetDefault("check-interval", defaultCheckInterval)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// A missing config file is fine: defaults cover everything but sources.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Options == nil {
		config.Options = &OptionsConfig{}
	}
	if len(config.Options.Categories) == 0 {
		config.Options.Categories = defaultCategories
	}
	if len(config.Options.Locations) == 0 {
		config.Options.Locations = defaultLocations
	}
	if len(config.Options.Companies) == 0 {
		for _, src := range config.Sources {
			config.Options.Companies = append(config.Options.Companies, src.Name)
		}
	}

	return config, nil
}
