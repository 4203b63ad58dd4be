// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-armada/internal/core"
)

// Game is the interface every battle mode implements. A mode holds pure
// game logic with no Bubble Tea or transport dependencies; the platform
// owns input mapping, the tick clock, and drawing to the terminal.
type Game interface {
	// ID is the stable identifier used in CLI commands and stored
	// results (e.g., "battle", "battle_streak").
	ID() string

	// Title is the display name (e.g., "Classic Battle").
	Title() string

	// Reset brings the mode to a fresh start. It runs before the first
	// tick and again on restart after game over; cfg carries the screen
	// size and the RNG seed that places the fleets.
	Reset(cfg core.RuntimeConfig)

	// Step advances one fixed tick under the frame's input, already
	// mapped to platform actions (Fire, Confirm, clicks), and reports
	// what the tick did along with the state after it.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into dst. The platform clears the
	// buffer before calling.
	Render(dst *core.Screen)

	// State reports score, pause, and game over.
	State() core.GameState
}

// GameInfo is the listing entry for a registered mode.
type GameInfo struct {
	ID    string
	Title string
}

// Factory builds a fresh instance of a mode.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory, normally from the mode's init().
// Registering the same ID twice panics.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}

	factories[id] = f

	// Instantiate once up front to capture the display title
	g := f()
	titles[id] = g.Title()
}

// List reports every registered mode, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a fresh instance of the mode with the given ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(), nil
}

// Exists reports whether a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
