package level

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleLevel = `
name: Test Maze
start: {x: 100, y: 100}
goal: {x: 1100, y: 600}
background: 1
walls:
  - {left: 400, top: 0, right: 440, bottom: 500}
holes:
  - {x: 640, y: 360}
`

func writeLevel(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write level file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeLevel(t, "test.yaml", sampleLevel)

	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lvl.Name != "Test Maze" {
		t.Errorf("expected name 'Test Maze', got %q", lvl.Name)
	}
	if lvl.Start.X != 100 || lvl.Start.Y != 100 {
		t.Errorf("unexpected start: %+v", lvl.Start)
	}
	if lvl.Goal.X != 1100 || lvl.Goal.Y != 600 {
		t.Errorf("unexpected goal: %+v", lvl.Goal)
	}
	if len(lvl.Walls) != 1 {
		t.Fatalf("expected 1 wall, got %d", len(lvl.Walls))
	}
	if len(lvl.Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(lvl.Holes))
	}
	if lvl.Background != 1 {
		t.Errorf("expected background 1, got %d", lvl.Background)
	}
}

func TestLoad_NameDefaultsToFilename(t *testing.T) {
	path := writeLevel(t, "maze-07.yaml", `
start: {x: 100, y: 100}
goal: {x: 1100, y: 600}
`)

	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lvl.Name != "maze-07" {
		t.Errorf("expected name 'maze-07', got %q", lvl.Name)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeLevel(t, "bad.yaml", "walls: [not a wall")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		wantErr bool
	}{
		{
			name: "valid",
			level: Level{
				Start: Point{X: 100, Y: 100},
				Goal:  Point{X: 1100, Y: 600},
			},
		},
		{
			name: "start outside design space",
			level: Level{
				Start: Point{X: -10, Y: 100},
				Goal:  Point{X: 1100, Y: 600},
			},
			wantErr: true,
		},
		{
			name: "start equals goal",
			level: Level{
				Start: Point{X: 100, Y: 100},
				Goal:  Point{X: 100, Y: 100},
			},
			wantErr: true,
		},
		{
			name: "wall with negative extent",
			level: Level{
				Start: Point{X: 100, Y: 100},
				Goal:  Point{X: 1100, Y: 600},
				Walls: []Wall{{Left: 500, Top: 100, Right: 400, Bottom: 200}},
			},
			wantErr: true,
		},
		{
			name: "hole outside design space",
			level: Level{
				Start: Point{X: 100, Y: 100},
				Goal:  Point{X: 1100, Y: 600},
				Holes: []Hole{{X: 640, Y: 900}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.level.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"02-second.yaml": sampleLevel,
		"01-first.yaml":  sampleLevel,
		"ignore.txt":     "not a level",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	levels, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
}

func TestLoadDir_Empty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Error("expected error for directory without levels")
	}
}

func TestBuiltIn_AllValid(t *testing.T) {
	levels := BuiltIn()
	if len(levels) == 0 {
		t.Fatal("expected built-in levels")
	}
	for _, lvl := range levels {
		if err := lvl.Validate(); err != nil {
			t.Errorf("built-in level %q invalid: %v", lvl.Name, err)
		}
	}
}
