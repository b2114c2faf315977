package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/okutan/tiltmaze/internal/audio"
	"github.com/okutan/tiltmaze/internal/config"
	"github.com/okutan/tiltmaze/internal/game"
	"github.com/okutan/tiltmaze/internal/level"
	"github.com/okutan/tiltmaze/internal/scores"
	"github.com/okutan/tiltmaze/internal/ui"
)

const (
	// Keyboard tilt simulation: each key press tips the virtual device a
	// bit further, scaled by the configured sensitivity.
	tiltStep = 0.15
	tiltMax  = 1.0

	// Pause between level completion and loading the next maze.
	advanceDelay = 1500 * time.Millisecond
)

// App is the main application controller that manages the game lifecycle.
type App struct {
	cfg      *config.Config
	screen   *ui.Screen
	renderer *ui.Renderer
	player   *audio.Player
	engine   *game.Engine
	store    *scores.Store

	levels   []*level.Level
	levelIdx int

	// Simulated device tilt, only touched from the main loop.
	tiltX, tiltY float64

	// Signals from engine callbacks into the main loop.
	completed chan struct{}
	fell      chan struct{}

	quit    chan struct{}
	sigChan chan os.Signal
}

// NewApp creates a new App instance with the given configuration.
func NewApp(cfg *config.Config) *App {
	return &App{
		cfg:       cfg,
		completed: make(chan struct{}, 1),
		fell:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
	}
}

// Run is the main entry point for the application.
// It loads levels, initializes the screen and engine, and runs the loop.
func (a *App) Run() error {
	if err := a.loadLevels(); err != nil {
		return err
	}

	// Best times survive restarts via the platform data dir; a failed
	// open just means records live for this session only.
	if a.cfg.NoRecords {
		a.store = scores.NewMemory()
	} else {
		a.store, _ = scores.Open("tiltmaze")
	}

	// Audio is optional, the game works without sound.
	a.player, _ = audio.New(a.cfg.Mute)

	screen, err := ui.InitScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	a.screen = screen
	a.renderer = ui.NewRenderer(screen)

	a.engine = game.New(
		&feedbackSink{player: a.player, renderer: a.renderer},
		game.Callbacks{
			OnFallInHole:    func() { a.signal(a.fell) },
			OnLevelComplete: func() { a.signal(a.completed) },
		},
	)

	w, h := a.screen.Size()
	a.engine.SurfaceChanged(ui.SurfaceSize(w, h))
	a.engine.SetLevel(a.levels[a.levelIdx])
	a.engine.Start()

	// Setup signal handling
	a.sigChan = make(chan os.Signal, 1)
	signal.Notify(a.sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-a.sigChan
		close(a.quit)
	}()

	runErr := a.mainLoop()
	a.cleanup()
	return runErr
}

// loadLevels fills the level list from the configured directory, or the
// built-in set when none is given, and positions the starting index.
func (a *App) loadLevels() error {
	if a.cfg.LevelsDir == "" {
		a.levels = level.BuiltIn()
	} else {
		levels, err := level.LoadDir(a.cfg.LevelsDir)
		if err != nil {
			return fmt.Errorf("failed to load levels: %w", err)
		}
		if len(levels) == 0 {
			return fmt.Errorf("no levels found in %s", a.cfg.LevelsDir)
		}
		a.levels = levels
	}

	if a.cfg.StartLevel > len(a.levels) {
		return fmt.Errorf("level %d does not exist, only %d available",
			a.cfg.StartLevel, len(a.levels))
	}
	a.levelIdx = a.cfg.StartLevel - 1
	return nil
}

// mainLoop is the main event loop that handles all input and state updates.
func (a *App) mainLoop() error {
	// Create event channel for screen events
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-a.quit:
				return
			}
		}
	}()

	// Ticker for sensor feed and rendering at ~60fps
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	// Armed when a level completes; nil otherwise so it never fires.
	var advance <-chan time.Time

	for {
		select {
		case <-a.quit:
			return nil

		case ev := <-events:
			if a.handleEvent(ev) {
				return nil
			}

		case <-a.fell:
			// The engine already reset the ball; level the device too so
			// it does not immediately roll back where it came from.
			a.tiltX, a.tiltY = 0, 0

		case <-a.completed:
			snap := a.engine.Snapshot()
			a.store.Record(snap.LevelName, snap.Elapsed)
			advance = time.After(advanceDelay)

		case <-advance:
			advance = nil
			a.nextLevel()

		case <-ticker.C:
			a.engine.SubmitTilt(a.tiltX, a.tiltY)
			a.render()
		}
	}
}

// handleEvent processes keyboard and resize events.
// Returns true if the application should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventResize:
		w, h := ev.Size()
		a.engine.SurfaceChanged(ui.SurfaceSize(w, h))
		a.screen.Clear()
		a.render()
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	key, r := ev.Key(), ev.Rune()

	switch {
	case ui.IsQuitKey(key, r):
		return true

	case ui.IsPauseKey(key, r):
		if a.engine.Paused() {
			a.engine.Resume(true)
		} else {
			a.engine.Pause()
		}

	case ui.IsResetKey(key, r):
		a.tiltX, a.tiltY = 0, 0
		a.engine.ForceResetBall()
		if a.engine.Paused() {
			a.engine.Resume(false)
		}

	case ui.IsHolesKey(key, r):
		a.engine.SetHolesVisible(!a.engine.HolesVisible())

	default:
		a.applyTilt(ui.KeyToTilt(key, r))
	}
	return false
}

// applyTilt nudges the simulated device in the chosen direction.
func (a *App) applyTilt(action ui.TiltAction) {
	step := tiltStep * a.cfg.Sensitivity

	switch action {
	case ui.TiltLeft:
		a.tiltX = clampTilt(a.tiltX - step)
	case ui.TiltRight:
		a.tiltX = clampTilt(a.tiltX + step)
	case ui.TiltUp:
		a.tiltY = clampTilt(a.tiltY - step)
	case ui.TiltDown:
		a.tiltY = clampTilt(a.tiltY + step)
	case ui.TiltCenter:
		a.tiltX, a.tiltY = 0, 0
	}
}

// nextLevel advances to the following maze, wrapping back to the first
// after the last one.
func (a *App) nextLevel() {
	a.levelIdx = (a.levelIdx + 1) % len(a.levels)
	a.tiltX, a.tiltY = 0, 0
	a.engine.SetLevel(a.levels[a.levelIdx])
}

func (a *App) render() {
	snap := a.engine.Snapshot()
	best, hasBest := time.Duration(0), false
	if snap.Valid {
		best, hasBest = a.store.Best(snap.LevelName)
	}
	a.renderer.RenderGame(snap, best, hasBest)
}

// signal performs a non-blocking send; the channels are buffered and a
// dropped duplicate is harmless.
func (a *App) signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// cleanup shuts down all resources.
func (a *App) cleanup() {
	if a.engine != nil {
		a.engine.Stop()
	}
	if a.player != nil {
		a.player.Close()
	}
	if a.screen != nil {
		a.screen.Fini()
	}
	signal.Stop(a.sigChan)
}

// feedbackSink routes engine feedback to the host outputs: sounds to
// the speaker, vibration pulses to the border flash.
type feedbackSink struct {
	player   *audio.Player
	renderer *ui.Renderer
}

func (s *feedbackSink) PlaySound(kind game.SoundKind) {
	if s.player != nil {
		s.player.PlaySound(kind)
	}
}

func (s *feedbackSink) Vibrate(d time.Duration, amplitude float64) {
	s.renderer.Flash(d, amplitude)
}
