package internal

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName        = "cowbench"
	DefaultAppCMDShortCut = "cowbench"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultConfigFile     = filepath.Join(DefaultConfigPath, "config.yaml")

	// Default benchmark sizing knobs. Deliberately small enough to run
	// on a developer machine; the original demonstration used a 120M
	// element array, which is a config-file concern, not a default.
	DefaultElementCount      = 4_000_000
	DefaultCopyCount         = 50
	DefaultMutationsPerCopy  = 2400
	DefaultIterations        = 10
	DefaultSeed              = int64(0) // 0 = derive from wall clock at startup
	DefaultPhasePauseSeconds = 2
	DefaultFillWorkers       = 0 // 0 = GOMAXPROCS
	DefaultMemCheck          = true
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			// Last resort - use tmp directory
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
