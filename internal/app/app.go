// Package app implements the host-shell application wrapping the core
// emulation engine: configuration, a graphics backend, frame pacing, save
// states, and input routing. None of this package is part of the
// cycle-accurate core (internal/bus, internal/cpu, internal/apu,
// internal/ppu, internal/dma, internal/cartridge, internal/input) — it is
// the ambient "host shell" spec.md §1 places out of the core's scope,
// kept here as the concrete exerciser of the Core API (internal/console)
// and of ebitengine's windowing/input surface.
package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gosnes/internal/console"
	"gosnes/internal/graphics"
	"gosnes/internal/input"
)

// readROMFile reads a ROM image from disk. Archive containers (zip) and
// remote sources are the host shell's concern per spec.md §1; this
// package only reads a plain file.
func readROMFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Application ties configuration, the console, a graphics backend, and
// save states into a runnable program.
type Application struct {
	console *console.Console

	graphicsBackend graphics.Backend
	window          graphics.Window
	videoProcessor  *graphics.VideoProcessor

	config   *Config
	emulator *Emulator
	states   *StateManager

	running     bool
	paused      bool
	initialized bool
	headless    bool

	romPath    string
	frameBuf   [console.FrameBytes]uint8
	lastESCTime time.Time
}

// ApplicationError reports a failure in a specific application component.
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("app: %s: %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication creates an Application in windowed mode, loading config
// from configPath (or defaults if configPath is empty).
func NewApplication(configPath string) (*Application, error) {
	return NewApplicationWithMode(configPath, false)
}

// NewApplicationWithMode creates an Application, forcing a headless
// graphics backend when headless is true (used by automated test runs).
func NewApplicationWithMode(configPath string, headless bool) (*Application, error) {
	app := &Application{
		config:   NewConfig(),
		headless: headless,
	}

	if configPath != "" {
		if err := app.config.LoadFromFile(configPath); err != nil {
			log.Printf("app: could not load config from %s, using defaults: %v", configPath, err)
		}
	}

	if err := app.initializeComponents(headless); err != nil {
		return nil, &ApplicationError{Component: "init", Operation: "component setup", Err: err}
	}

	return app, nil
}

func (app *Application) initializeComponents(headless bool) error {
	app.console = console.New()

	if err := app.initializeGraphicsBackend(headless); err != nil {
		return fmt.Errorf("graphics backend: %w", err)
	}

	app.emulator = NewEmulator(app.console, app.config)
	app.states = NewStateManager(app.config.Paths.SaveStates)
	app.videoProcessor = graphics.NewVideoProcessor(
		app.config.Video.Brightness, app.config.Video.Contrast, app.config.Video.Saturation)

	app.initialized = true
	return nil
}

func (app *Application) initializeGraphicsBackend(headless bool) error {
	backendType := graphics.BackendEbitengine
	switch {
	case headless:
		backendType = graphics.BackendHeadless
	case app.config.Video.Backend == "headless":
		backendType = graphics.BackendHeadless
	case app.config.Video.Backend == "terminal":
		backendType = graphics.BackendTerminal
	}

	var err error
	app.graphicsBackend, err = graphics.CreateBackend(backendType)
	if err != nil {
		return err
	}

	graphicsConfig := graphics.Config{
		WindowTitle:  "gosnes",
		WindowWidth:  app.config.Window.Width,
		WindowHeight: app.config.Window.Height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		AspectRatio:  app.config.Video.AspectRatio,
		Headless:     headless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendHeadless {
			log.Printf("app: %s backend failed (%v), falling back to headless", backendType, err)
			app.graphicsBackend, err = graphics.CreateBackend(graphics.BackendHeadless)
			if err != nil {
				return err
			}
			graphicsConfig.Headless = true
			if err := app.graphicsBackend.Initialize(graphicsConfig); err != nil {
				return err
			}
			headless = true
		} else {
			return err
		}
	}

	if !headless && !app.graphicsBackend.IsHeadless() {
		app.window, err = app.graphicsBackend.CreateWindow(
			graphicsConfig.WindowTitle, graphicsConfig.WindowWidth, graphicsConfig.WindowHeight)
		if err != nil {
			return fmt.Errorf("create window: %w", err)
		}
	}

	return nil
}

// LoadROM loads and mirror-expands a cartridge image, installs it, and
// hard-resets the console.
func (app *Application) LoadROM(romPath string) error {
	if !app.initialized {
		return errors.New("app: not initialized")
	}

	data, err := readROMFile(romPath)
	if err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "read file", Err: err}
	}

	if err := app.console.LoadROM(data); err != nil {
		return &ApplicationError{Component: "cartridge", Operation: "load rom", Err: err}
	}
	app.romPath = romPath

	if app.console.Bus.Cart.PAL {
		app.emulator.SetRegion("PAL")
	} else {
		app.emulator.SetRegion("NTSC")
	}

	if app.window != nil {
		app.window.SetTitle(fmt.Sprintf("gosnes - %s", filepath.Base(romPath)))
	}

	app.emulator.Start()
	return nil
}

// Run drives the main application loop until Stop is called or the
// window is closed.
func (app *Application) Run() error {
	if !app.initialized {
		return errors.New("app: not initialized")
	}
	app.running = true

	if ew, ok := graphics.AsEbitengineWindow(app.window); ok {
		ew.SetEmulatorUpdateFunc(app.tick)
		return ew.Run()
	}

	for app.running {
		if err := app.tick(); err != nil {
			return err
		}
		if app.window != nil && app.window.ShouldClose() {
			app.Stop()
		}
		time.Sleep(time.Second / 60)
	}
	return nil
}

// tick processes input, advances one frame, and presents it. It is the
// body of both the Ebitengine-driven Update loop and the generic
// poll-based loop for headless/terminal backends.
func (app *Application) tick() error {
	if err := app.processInput(); err != nil && app.config.Debug.EnableLogging {
		log.Printf("app: input error: %v", err)
	}

	if !app.paused {
		if err := app.emulator.Update(); err != nil {
			return fmt.Errorf("app: emulator update: %w", err)
		}
	}

	return app.render()
}

func (app *Application) render() error {
	if err := app.console.PutPixels(app.frameBuf[:]); err != nil {
		return err
	}
	app.videoProcessor.ProcessFrame(app.frameBuf[:])
	if app.window != nil {
		return app.window.RenderFrame(app.frameBuf[:])
	}
	return nil
}

// Stop ends the main loop.
func (app *Application) Stop() {
	app.running = false
	app.emulator.Stop()
}

// Cleanup releases graphics resources.
func (app *Application) Cleanup() error {
	if app.window != nil {
		app.window.Cleanup()
	}
	if app.graphicsBackend != nil {
		return app.graphicsBackend.Cleanup()
	}
	return nil
}

// GetConfig returns the application's live configuration.
func (app *Application) GetConfig() *Config {
	return app.config
}

// ApplyDebugSettings changes nothing: core packages stay silent and only
// this host layer logs (SPEC_FULL.md §11), so config.Debug.EnableLogging
// is not propagated to any emulator component.
func (app *Application) ApplyDebugSettings() {
	// No-op placeholder: core packages intentionally never log. Present
	// so a future debug overlay has a single call site to extend.
}

// TogglePause flips the paused flag, freezing emulation while still
// presenting the last rendered frame.
func (app *Application) TogglePause() {
	app.paused = !app.paused
}

// SaveStateSlot saves the current console state to slot.
func (app *Application) SaveStateSlot(slot int) error {
	if app.romPath == "" {
		return errors.New("app: no rom loaded")
	}
	return app.states.SaveState(app.console, slot, app.romPath)
}

// LoadStateSlot restores the console state from slot.
func (app *Application) LoadStateSlot(slot int) error {
	if app.romPath == "" {
		return errors.New("app: no rom loaded")
	}
	return app.states.LoadState(app.console, slot, app.romPath)
}

// processInput drains the window's event queue, routing controller
// buttons to the console and other keys to application-level shortcuts
// (pause, save-state slots, quit confirmation).
func (app *Application) processInput() error {
	if app.window == nil {
		return nil
	}

	for _, event := range app.window.PollEvents() {
		switch event.Type {
		case graphics.InputEventTypeQuit:
			app.Stop()
			return nil
		case graphics.InputEventTypeButton:
			if port, btn, ok := mapGraphicsButton(event.Button); ok {
				app.console.SetButton(port, btn, event.Pressed)
			}
		case graphics.InputEventTypeKey:
			app.handleKeyShortcut(event)
		}
	}
	return nil
}

// handleKeyShortcut implements non-controller key bindings: Escape
// (double-tap within 3s to quit), F1 to toggle pause, F5/F9 for quick
// save/load on slot 0.
func (app *Application) handleKeyShortcut(event graphics.InputEvent) {
	if !event.Pressed {
		return
	}

	switch event.Key {
	case graphics.KeyEscape:
		now := time.Now()
		if !app.lastESCTime.IsZero() && now.Sub(app.lastESCTime) < 3*time.Second {
			app.Stop()
			return
		}
		app.lastESCTime = now
	case graphics.KeyF1:
		app.TogglePause()
	case graphics.KeyF5:
		if err := app.SaveStateSlot(0); err != nil && app.config.Debug.EnableLogging {
			log.Printf("app: save state: %v", err)
		}
	case graphics.KeyF9:
		if err := app.LoadStateSlot(0); err != nil && app.config.Debug.EnableLogging {
			log.Printf("app: load state: %v", err)
		}
	}
}

// mapGraphicsButton translates the graphics package's 2-port button enum
// into a controller port (1 or 2) and the input package's Button.
func mapGraphicsButton(b graphics.Button) (port int, btn input.Button, ok bool) {
	switch b {
	case graphics.ButtonA:
		return 1, input.A, true
	case graphics.ButtonB:
		return 1, input.B, true
	case graphics.ButtonX:
		return 1, input.X, true
	case graphics.ButtonY:
		return 1, input.Y, true
	case graphics.ButtonL:
		return 1, input.L, true
	case graphics.ButtonR:
		return 1, input.R, true
	case graphics.ButtonSelect:
		return 1, input.Select, true
	case graphics.ButtonStart:
		return 1, input.Start, true
	case graphics.ButtonUp:
		return 1, input.Up, true
	case graphics.ButtonDown:
		return 1, input.Down, true
	case graphics.ButtonLeft:
		return 1, input.Left, true
	case graphics.ButtonRight:
		return 1, input.Right, true
	case graphics.Button2A:
		return 2, input.A, true
	case graphics.Button2B:
		return 2, input.B, true
	case graphics.Button2X:
		return 2, input.X, true
	case graphics.Button2Y:
		return 2, input.Y, true
	case graphics.Button2L:
		return 2, input.L, true
	case graphics.Button2R:
		return 2, input.R, true
	case graphics.Button2Select:
		return 2, input.Select, true
	case graphics.Button2Start:
		return 2, input.Start, true
	case graphics.Button2Up:
		return 2, input.Up, true
	case graphics.Button2Down:
		return 2, input.Down, true
	case graphics.Button2Left:
		return 2, input.Left, true
	case graphics.Button2Right:
		return 2, input.Right, true
	default:
		return 0, 0, false
	}
}
