package config

import (
	"fmt"
	"strings"

	internal "github.com/ZanzyTHEbar/cowbench/cowb"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Bench BenchConfig `mapstructure:"bench"`
}

// BenchConfig stores the sizing knobs of one benchmark run. These were
// compile-time constants in the original demonstration; here they are
// regular configuration.
type BenchConfig struct {
	// ElementCount is the number of int32 elements in the base buffer.
	ElementCount int `mapstructure:"elementCount"`
	// CopyCount is the number of logical copies produced per workload.
	CopyCount int `mapstructure:"copyCount"`
	// MutationsPerCopy is the number of random single-element writes
	// applied to each copy.
	MutationsPerCopy int `mapstructure:"mutationsPerCopy"`
	// Iterations is the number of full workload runs to average over.
	Iterations int `mapstructure:"iterations"`
	// Seed drives the dataset fill and the mutation schedule. Zero
	// means derive a seed from the wall clock at startup.
	Seed int64 `mapstructure:"seed"`
	// PhasePauseSeconds is the deliberate pause between the COW and
	// naive phases of one iteration, so released memory settles
	// before the next phase allocates.
	PhasePauseSeconds int `mapstructure:"phasePauseSeconds"`
	// FillWorkers bounds the dataset-fill worker pool. Zero means
	// GOMAXPROCS.
	FillWorkers int `mapstructure:"fillWorkers"`
	// MemCheck enables the pre-run physical memory advisory.
	MemCheck bool `mapstructure:"memCheck"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Set default values
	viper.SetDefault("bench.elementCount", internal.DefaultElementCount)
	viper.SetDefault("bench.copyCount", internal.DefaultCopyCount)
	viper.SetDefault("bench.mutationsPerCopy", internal.DefaultMutationsPerCopy)
	viper.SetDefault("bench.iterations", internal.DefaultIterations)
	viper.SetDefault("bench.seed", internal.DefaultSeed)
	viper.SetDefault("bench.phasePauseSeconds", internal.DefaultPhasePauseSeconds)
	viper.SetDefault("bench.fillWorkers", internal.DefaultFillWorkers)
	viper.SetDefault("bench.memCheck", internal.DefaultMemCheck)

	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // e.g. bench.copyCount becomes BENCH_COPYCOUNT

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; defaults will be used.
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := AppConfig.Bench.Validate(); err != nil {
		return nil, err
	}

	return &AppConfig, nil
}

// Validate rejects sizing knobs that cannot produce a meaningful run.
// Catching these here means every later allocation request is well
// formed before any memory is acquired.
func (c BenchConfig) Validate() error {
	if c.ElementCount <= 0 {
		return fmt.Errorf("bench.elementCount must be positive, got %d", c.ElementCount)
	}
	if c.CopyCount <= 0 {
		return fmt.Errorf("bench.copyCount must be positive, got %d", c.CopyCount)
	}
	if c.MutationsPerCopy < 0 {
		return fmt.Errorf("bench.mutationsPerCopy must be non-negative, got %d", c.MutationsPerCopy)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("bench.iterations must be positive, got %d", c.Iterations)
	}
	if c.PhasePauseSeconds < 0 {
		return fmt.Errorf("bench.phasePauseSeconds must be non-negative, got %d", c.PhasePauseSeconds)
	}
	if c.FillWorkers < 0 {
		return fmt.Errorf("bench.fillWorkers must be non-negative, got %d", c.FillWorkers)
	}
	return nil
}
