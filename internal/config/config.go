package config

import (
	"flag"
	"fmt"
)

// Default values for configuration
const (
	DefaultLevel       = 1
	DefaultSensitivity = 1.0
)

// Config holds the application configuration
type Config struct {
	LevelsDir   string
	StartLevel  int
	Mute        bool
	NoRecords   bool
	Sensitivity float64
}

// ParseArgs parses command line arguments and returns a Config
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tiltmaze", flag.ContinueOnError)

	levels := fs.String("levels", "", "directory with level YAML files (built-in levels when empty)")
	start := fs.Int("level", DefaultLevel, "level number to start at (>=1)")
	mute := fs.Bool("mute", false, "disable sound")
	noRecords := fs.Bool("no-records", false, "do not load or save best times")
	sensitivity := fs.Float64("sensitivity", DefaultSensitivity, "keyboard tilt sensitivity (0.1-5)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *start < 1 {
		return nil, fmt.Errorf("level must be at least 1, got %d", *start)
	}
	if *sensitivity < 0.1 || *sensitivity > 5 {
		return nil, fmt.Errorf("sensitivity must be between 0.1 and 5, got %g", *sensitivity)
	}

	cfg := &Config{
		LevelsDir:   *levels,
		StartLevel:  *start,
		Mute:        *mute,
		NoRecords:   *noRecords,
		Sensitivity: *sensitivity,
	}

	return cfg, nil
}
