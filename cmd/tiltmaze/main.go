package main

import (
	"fmt"
	"os"

	"github.com/okutan/tiltmaze/internal/app"
	"github.com/okutan/tiltmaze/internal/config"
)

func main() {
	cfg, err := config.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	application := app.NewApp(cfg)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  tiltmaze [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --levels <dir>        Directory with level YAML files (default: built-in)")
	fmt.Fprintln(os.Stderr, "  --level <n>           Level number to start at (default: 1)")
	fmt.Fprintln(os.Stderr, "  --sensitivity <f>     Keyboard tilt sensitivity, 0.1-5 (default: 1)")
	fmt.Fprintln(os.Stderr, "  --mute                Disable sound")
	fmt.Fprintln(os.Stderr, "  --no-records          Do not load or save best times")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Controls:")
	fmt.Fprintln(os.Stderr, "  arrows / wasd         Tilt the maze")
	fmt.Fprintln(os.Stderr, "  space                 Level the maze out")
	fmt.Fprintln(os.Stderr, "  p                     Pause / resume")
	fmt.Fprintln(os.Stderr, "  r                     Reset the ball")
	fmt.Fprintln(os.Stderr, "  h                     Toggle hole visibility")
	fmt.Fprintln(os.Stderr, "  q / Esc               Quit")
}
