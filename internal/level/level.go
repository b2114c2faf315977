package level

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Levels are authored in a fixed logical design space, independent of
// the actual surface size. The engine maps design coordinates to the
// surface with a uniform, letterboxed scale.
const (
	DesignWidth  = 1280.0
	DesignHeight = 720.0
)

// Point is a position in design coordinates.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Wall is an axis-aligned rectangular obstacle in design coordinates.
type Wall struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// Hole is a trap the ball can fall into.
type Hole struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Level describes one maze: start and goal positions, obstacles, traps
// and the background variant used by the renderer.
type Level struct {
	Name       string `yaml:"name"`
	Start      Point  `yaml:"start"`
	Goal       Point  `yaml:"goal"`
	Background int    `yaml:"background"`
	Walls      []Wall `yaml:"walls"`
	Holes      []Hole `yaml:"holes"`
}

// Load reads and validates a single level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}

	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML from %s: %w", path, err)
	}

	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid level %s: %w", path, err)
	}

	return &lvl, nil
}

// LoadDir loads every .yaml/.yml file in dir, ordered by filename.
func LoadDir(dir string) ([]*Level, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read levels directory %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no level files found in %s", dir)
	}

	levels := make([]*Level, 0, len(names))
	for _, name := range names {
		lvl, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

// Validate checks that all coordinates fall within the design space and
// that the level has distinct start and goal positions.
func (l *Level) Validate() error {
	if err := validatePoint("start", l.Start); err != nil {
		return err
	}
	if err := validatePoint("goal", l.Goal); err != nil {
		return err
	}
	if l.Start == l.Goal {
		return fmt.Errorf("start and goal must differ")
	}
	for i, w := range l.Walls {
		if w.Left >= w.Right || w.Top >= w.Bottom {
			return fmt.Errorf("wall %d has non-positive extent", i)
		}
		if w.Left < 0 || w.Top < 0 || w.Right > DesignWidth || w.Bottom > DesignHeight {
			return fmt.Errorf("wall %d outside design space", i)
		}
	}
	for i, h := range l.Holes {
		if err := validatePoint(fmt.Sprintf("hole %d", i), Point{X: h.X, Y: h.Y}); err != nil {
			return err
		}
	}
	return nil
}

func validatePoint(name string, p Point) error {
	if p.X < 0 || p.X > DesignWidth || p.Y < 0 || p.Y > DesignHeight {
		return fmt.Errorf("%s (%f,%f) outside design space", name, p.X, p.Y)
	}
	return nil
}
