package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		// Path to the SQLite database holding the labeled corpus,
		// categories, tags and job records.
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	Model struct {
		// Dir holds the versioned model snapshots.
		Dir string `mapstructure:"dir"`
		// Confidence tier thresholds; 0 <= medium < high <= 1.
		HighThreshold   float64 `mapstructure:"high_threshold"`
		MediumThreshold float64 `mapstructure:"medium_threshold"`
		// MinSamplesPerCategory excludes thinner categories from training.
		MinSamplesPerCategory int `mapstructure:"min_samples_per_category"`
		// AcceptanceAccuracy gates model swap after a successful run.
		AcceptanceAccuracy float64 `mapstructure:"acceptance_accuracy"`
		TrainSplit         float64 `mapstructure:"train_split"`
		MaxFeatures        int     `mapstructure:"max_features"`
		MinDocFreq         int     `mapstructure:"min_doc_freq"`
	} `mapstructure:"model"`

	Keywords struct {
		TopN    int `mapstructure:"top_n"`
		MaxTags int `mapstructure:"max_tags"`
	} `mapstructure:"keywords"`

	Tokenizer struct {
		// StopwordsPath optionally extends the built-in stopword lists,
		// one word per line.
		StopwordsPath string `mapstructure:"stopwords_path"`
	} `mapstructure:"tokenizer"`

	Chunking struct {
		MaxSentences int `mapstructure:"max_sentences"`
		Overlap      int `mapstructure:"overlap"`
	} `mapstructure:"chunking"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`
}

// LoadConfig reads config.yaml from the working directory, layered with
// environment variables, and applies defaults and validation.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.BindEnv("database.path", "MINERVA_DB_PATH")
	viper.BindEnv("model.dir", "MINERVA_MODEL_DIR")
	viper.BindEnv("redis.address", "MINERVA_REDIS_ADDR")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; defaults and env vars apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("database.path", "minerva.db")
	viper.SetDefault("model.dir", "models")
	viper.SetDefault("model.high_threshold", 0.5)
	viper.SetDefault("model.medium_threshold", 0.3)
	viper.SetDefault("model.min_samples_per_category", 5)
	viper.SetDefault("model.acceptance_accuracy", 0.6)
	viper.SetDefault("model.train_split", 0.8)
	viper.SetDefault("model.max_features", 5000)
	viper.SetDefault("model.min_doc_freq", 1)
	viper.SetDefault("keywords.top_n", 10)
	viper.SetDefault("keywords.max_tags", 5)
	viper.SetDefault("chunking.max_sentences", 8)
	viper.SetDefault("chunking.overlap", 1)
	viper.SetDefault("redis.address", "127.0.0.1:6379")
	viper.SetDefault("worker.concurrency", 1)
	viper.SetDefault("worker.queues", map[string]int{"training": 1})
}

// Validate enforces the threshold ordering invariant and basic sanity.
func (c *Config) Validate() error {
	m, h := c.Model.MediumThreshold, c.Model.HighThreshold
	if m < 0 || h > 1 || m >= h {
		return fmt.Errorf("confidence thresholds must satisfy 0 <= medium (%v) < high (%v) <= 1", m, h)
	}
	if c.Model.TrainSplit <= 0 || c.Model.TrainSplit >= 1 {
		return fmt.Errorf("model.train_split must be in (0, 1), got %v", c.Model.TrainSplit)
	}
	if c.Model.AcceptanceAccuracy < 0 || c.Model.AcceptanceAccuracy > 1 {
		return fmt.Errorf("model.acceptance_accuracy must be in [0, 1], got %v", c.Model.AcceptanceAccuracy)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("model.dir is required")
	}
	return nil
}
