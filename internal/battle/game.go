package battle

import (
	"math/rand"

	"github.com/vovakirdan/tui-armada/internal/config"
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/registry"
)

// Mode represents the battle variant.
type Mode string

const (
	// ModeClassic alternates turns after every shot.
	ModeClassic Mode = "classic"

	// ModeStreak keeps the turn with the shooter after a hit.
	ModeStreak Mode = "streak"
)

// Phase is the current stage of a battle.
type Phase int

const (
	// PhasePlacing is the pre-battle stage: both sides review their
	// fleet layout and confirm readiness.
	PhasePlacing Phase = iota

	// PhaseTargeting means the side to move is choosing a cell.
	PhaseTargeting

	// PhaseResolving is the beat after a shot lands, while its result
	// is shown. Input is ignored until the next turn starts.
	PhaseResolving

	// PhaseOver means one fleet has been destroyed.
	PhaseOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePlacing:
		return "Placing"
	case PhaseTargeting:
		return "Targeting"
	case PhaseResolving:
		return "Resolving"
	case PhaseOver:
		return "Over"
	default:
		return "Unknown"
	}
}

// side holds everything one player brings to the battle: their fleet,
// the shots they have fired at the enemy, and their running totals.
type side struct {
	fleet *Fleet
	shots map[Coord]ShotMark
	fired int
	hits  int
	ready bool
}

func newSide() *side {
	return &side{shots: make(map[Coord]ShotMark)}
}

// mark returns the shot mark this side has left on an enemy cell.
func (s *side) mark(c Coord) ShotMark {
	return s.shots[c]
}

// CLI overrides, read when a Game resets
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	themeName        string
)

// SetConfigPath points the next Reset at a custom rules file.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the CPU difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	default:
		difficultyPreset = ""
	}
}

// SetThemeName selects a built-in board theme, overriding the config.
func SetThemeName(name string) {
	themeName = name
}

// Game implements the naval battle. One instance holds both sides;
// Player1 is the local keyboard player in vs-CPU matches.
type Game struct {
	mode Mode
	rng  *rand.Rand
	tick uint64

	cfg     config.BattleConfig
	runtime core.RuntimeConfig
	theme   Theme

	gridSize int
	sides    map[core.PlayerID]*side
	turn     core.PlayerID
	phase    Phase

	// viewer is the side this instance renders for. Local play leaves
	// it at Player1; online clients set it when applying views.
	viewer core.PlayerID

	// vsCPU drives Player2 through a gunner instead of input.
	vsCPU  bool
	gunner Gunner

	// skillOverride beats the package-level preset when set. Server
	// sessions use it; the package knob is not safe across goroutines.
	skillOverride string

	cursor       Coord
	lastShooter  core.PlayerID
	lastTarget   Coord
	lastResult   HitResult
	resolveTicks int
	cpuTicks     int

	extraShot bool
	winner    core.PlayerID
	gameOver  bool
	paused    bool

	placeFailed bool

	// Layout (computed from screen size at Reset)
	cellW, cellH int
	ownRect      core.Rect
	targetRect   core.Rect
	statusY      int
	tooSmall     bool
}

// New creates a classic battle against the CPU.
func New() *Game {
	return &Game{mode: ModeClassic, vsCPU: true}
}

// NewStreak creates a streak battle (shooter keeps the turn on a hit)
// against the CPU.
func NewStreak() *Game {
	return &Game{mode: ModeStreak, vsCPU: true}
}

// NewOnline creates a battle where both sides are driven by input.
// Used by the match coordinator for player vs player games.
func NewOnline(mode Mode) *Game {
	return &Game{mode: mode, vsCPU: false}
}

// SetSkillOverride forces a difficulty preset for this instance only.
// Takes effect on the next Reset.
func (g *Game) SetSkillOverride(preset string) {
	g.skillOverride = preset
}

func init() {
	registry.Register("battle", func() registry.Game {
		return New()
	})
	registry.Register("battle_streak", func() registry.Game {
		return NewStreak()
	})
}

// ID returns the mode identifier.
func (g *Game) ID() string {
	if g.mode == ModeStreak {
		return "battle_streak"
	}
	return "battle"
}

// Title names the mode in menus and the battle log.
func (g *Game) Title() string {
	if g.mode == ModeStreak {
		return "Sea Battle (Streak)"
	}
	return "Sea Battle"
}

// Reset initializes or restarts the battle: loads config, places both
// fleets and waits for placement confirmation.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.rng = rand.New(rand.NewSource(runtime.Seed))
	g.tick = 0

	cfg, err := config.LoadBattle(configPath)
	if err != nil {
		cfg = config.DefaultBattleConfig()
	}
	preset := difficultyPreset
	if g.skillOverride != "" {
		preset = config.DifficultyPreset(g.skillOverride)
	}
	if preset != "" {
		config.ApplyBattlePreset(&cfg, preset)
	}
	if themeName != "" {
		cfg.Theme = config.NamedTheme(themeName)
	}
	g.cfg = cfg
	g.theme = ThemeFromConfig(cfg.Theme)
	g.gridSize = cfg.Rules.GridSize
	g.extraShot = cfg.Rules.ExtraShotOnHit || g.mode == ModeStreak
	g.gunner = gunnerForSkill(cfg.CPU.Skill)

	g.sides = map[core.PlayerID]*side{
		core.Player1: newSide(),
		core.Player2: newSide(),
	}
	g.viewer = core.Player1
	g.turn = core.Player1
	g.phase = PhasePlacing
	g.cursor = C(g.gridSize/2, g.gridSize/2)
	g.lastShooter = core.NoPlayer
	g.lastResult = Miss
	g.resolveTicks = 0
	g.cpuTicks = 0
	g.winner = core.NoPlayer
	g.gameOver = false
	g.paused = false
	g.placeFailed = false

	classes := flattenFleet(cfg.Fleet)
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		fleet, err := RandomFleet(g.rng, classes, g.gridSize, cfg.Rules.AllowTouching)
		if err != nil {
			g.placeFailed = true
			g.phase = PhaseOver
			g.gameOver = true
			return
		}
		g.sides[id].fleet = fleet
	}

	// The CPU has no layout opinions
	if g.vsCPU {
		g.sides[core.Player2].ready = true
	}

	g.calculateLayout()
}

// flattenFleet expands config ship specs into one class per ship.
func flattenFleet(specs []config.ShipSpec) []ShipClass {
	classes := make([]ShipClass, 0, len(specs))
	for _, spec := range specs {
		for i := 0; i < spec.Count; i++ {
			classes = append(classes, ShipClass{Name: spec.Name, Length: spec.Length})
		}
	}
	return classes
}

// gunnerForSkill maps a config skill name to a gunner.
func gunnerForSkill(skill string) Gunner {
	switch config.DifficultyPreset(skill) {
	case config.DifficultyEasy:
		return RandomGunner{}
	case config.DifficultyHard:
		return HuntGunner{Parity: true}
	default:
		return HuntGunner{}
	}
}

// calculateLayout positions both boards on the screen. Each board gets
// a 3-column row label gutter and one row of column letters above it.
func (g *Game) calculateLayout() {
	const gutter = 3 // row numbers left of each board
	const gap = 4    // space between the two boards
	const topY = 3   // title row, HUD row, letters row

	g.cellW, g.cellH = 4, 2
	if g.boardsWidth(gutter, gap) > g.runtime.ScreenW {
		g.cellW, g.cellH = 2, 1
	}

	boardW := g.gridSize * g.cellW
	boardH := g.gridSize * g.cellH
	totalW := 2*(gutter+boardW) + gap

	needH := topY + boardH + 3 // status line and key hints below
	g.tooSmall = totalW > g.runtime.ScreenW || needH > g.runtime.ScreenH
	if g.tooSmall {
		return
	}

	leftX := (g.runtime.ScreenW - totalW) / 2
	g.ownRect = core.NewRect(leftX+gutter, topY, boardW, boardH)
	g.targetRect = core.NewRect(leftX+gutter+boardW+gap+gutter, topY, boardW, boardH)
	g.statusY = topY + boardH + 1
}

func (g *Game) boardsWidth(gutter, gap int) int {
	return 2*(gutter+g.gridSize*4) + gap
}

// Step advances the game one tick using local input. Player1 is the
// keyboard player; Player2 acts through the CPU gunner.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances the game one tick using input from both sides.
// The match coordinator feeds this directly for online games.
func (g *Game) StepMulti(input core.MultiInputFrame) core.StepResult {
	g.tick++
	res := core.StepResult{}

	if g.tooSmall || g.placeFailed {
		res.State = g.State()
		return res
	}

	// Pause is a local convenience; online matches cannot be held
	// hostage by one side.
	if g.vsCPU && input.Player1().Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		res.State = g.State()
		return res
	}

	switch g.phase {
	case PhasePlacing:
		g.stepPlacing(input)
	case PhaseTargeting:
		g.stepTargeting(input, &res)
	case PhaseResolving:
		g.stepResolving()
	case PhaseOver:
		// Platform handles restart
	}

	res.State = g.State()
	return res
}

// stepPlacing lets each side reshuffle its fleet until both confirm.
func (g *Game) stepPlacing(input core.MultiInputFrame) {
	for _, id := range []core.PlayerID{core.Player1, core.Player2} {
		s := g.sides[id]
		if s.ready {
			continue
		}
		if g.vsCPU && id == core.Player2 {
			continue
		}

		frame := input.Player(id)
		if frame.Has(core.ActionShuffle) {
			fleet, err := RandomFleet(g.rng, flattenFleet(g.cfg.Fleet), g.gridSize, g.cfg.Rules.AllowTouching)
			if err == nil {
				s.fleet = fleet
			}
		}
		if frame.Has(core.ActionConfirm) {
			s.ready = true
		}
	}

	if g.sides[core.Player1].ready && g.sides[core.Player2].ready {
		g.phase = PhaseTargeting
		g.turn = core.Player1
	}
}

// stepTargeting handles aiming and firing for the side to move.
func (g *Game) stepTargeting(input core.MultiInputFrame, res *core.StepResult) {
	if g.vsCPU && g.turn == core.Player2 {
		g.stepCPU(res)
		return
	}

	frame := input.Player(g.turn)

	// Keyboard aim
	switch {
	case frame.Has(core.ActionUp):
		g.cursor.Y = core.Clamp(g.cursor.Y-1, 0, g.gridSize-1)
	case frame.Has(core.ActionDown):
		g.cursor.Y = core.Clamp(g.cursor.Y+1, 0, g.gridSize-1)
	case frame.Has(core.ActionLeft):
		g.cursor.X = core.Clamp(g.cursor.X-1, 0, g.gridSize-1)
	case frame.Has(core.ActionRight):
		g.cursor.X = core.Clamp(g.cursor.X+1, 0, g.gridSize-1)
	}

	// Pointer aim: a click inside the enemy board both aims and fires.
	// Clicks anywhere else are ignored.
	if frame.Click != nil {
		col, row, ok := g.targetRect.CellAt(frame.Click.X, frame.Click.Y, g.cellW, g.cellH)
		if ok {
			g.cursor = C(col, row)
			g.fire(g.turn, g.cursor, res)
			return
		}
	}

	if frame.Has(core.ActionFire) {
		g.fire(g.turn, g.cursor, res)
	}
}

// stepCPU counts down the aim delay, then fires through the gunner.
func (g *Game) stepCPU(res *core.StepResult) {
	if g.cpuTicks > 0 {
		g.cpuTicks--
		return
	}
	target := g.gunner.Aim(g.rng, g.viewFor(core.Player2))
	g.fire(core.Player2, target, res)
}

// fire resolves one shot by the given side. Cells that were already
// shot are refused outright: no state changes, the turn stays where it
// is and the shooter picks again.
func (g *Game) fire(shooter core.PlayerID, target Coord, res *core.StepResult) {
	if !target.In(g.gridSize) {
		return
	}
	attacker := g.sides[shooter]
	if attacker.mark(target) != MarkNone {
		return
	}

	res.Cues = append(res.Cues, core.CueFire)
	result := g.resolveShot(shooter, target)

	g.lastShooter = shooter
	g.lastTarget = target
	g.lastResult = result

	switch result {
	case Miss:
		res.Cues = append(res.Cues, core.CueSplash)
	case Hit:
		res.Cues = append(res.Cues, core.CueExplosion)
	case HitAndSunk:
		res.Cues = append(res.Cues, core.CueExplosion, core.CueSunk)
	case GameOver:
		res.Cues = append(res.Cues, core.CueExplosion, core.CueSunk)
		if shooter == g.viewer {
			res.Cues = append(res.Cues, core.CueVictory)
		} else {
			res.Cues = append(res.Cues, core.CueDefeat)
		}
	}

	if result == GameOver {
		g.phase = PhaseOver
		g.gameOver = true
		g.winner = shooter
		return
	}

	g.phase = PhaseResolving
	g.resolveTicks = g.resolveDelay()
}

// resolveShot applies one shot to the defender's fleet and records the
// mark on the attacker's shot board. The outcome ladder: open water is
// a miss; a damaged ship still afloat is a hit; a ship going down is
// hit-and-sunk, unless it was the last one, which ends the game.
func (g *Game) resolveShot(shooter core.PlayerID, target Coord) HitResult {
	attacker := g.sides[shooter]
	defender := g.sides[shooter.Opponent()]

	attacker.fired++

	ship := defender.fleet.ShipAt(target)
	if ship == nil {
		attacker.shots[target] = MarkMiss
		return Miss
	}

	ship.Hit()
	attacker.hits++
	attacker.shots[target] = MarkHit

	if !ship.Sunk() {
		return Hit
	}

	// The whole ship is down: upgrade its cells on the shot board
	for _, c := range ship.Cells() {
		attacker.shots[c] = MarkSunk
	}

	if defender.fleet.AllSunk() {
		return GameOver
	}
	return HitAndSunk
}

// stepResolving waits out the result beat, then hands the turn over.
func (g *Game) stepResolving() {
	if g.resolveTicks > 0 {
		g.resolveTicks--
		return
	}

	wasHit := g.lastResult == Hit || g.lastResult == HitAndSunk
	if g.extraShot && wasHit {
		g.turn = g.lastShooter
	} else {
		g.turn = g.lastShooter.Opponent()
	}
	g.phase = PhaseTargeting

	if g.vsCPU && g.turn == core.Player2 {
		g.cpuTicks = g.aimDelay()
	}
}

// resolveDelay is how long a shot result stays on screen.
func (g *Game) resolveDelay() int {
	rate := g.runtime.TickRate
	if rate <= 0 {
		rate = 60
	}
	return rate * 3 / 4
}

// aimDelay is how long the CPU takes to line up a shot.
func (g *Game) aimDelay() int {
	base := g.cfg.CPU.AimDelayTicks
	if base <= 0 {
		base = 45
	}
	return base + g.rng.Intn(base/2+1)
}

// viewFor builds the gunner's view of the enemy grid for one side.
func (g *Game) viewFor(id core.PlayerID) TargetView {
	return TargetView{
		GridSize: g.gridSize,
		Shots:    g.sides[id].shots,
	}
}

// promptFor picks the console line for one viewing side.
func (g *Game) promptFor(viewer core.PlayerID) Prompt {
	switch g.phase {
	case PhasePlacing:
		if g.sides[viewer].ready {
			return PromptWaitingReady
		}
		return PromptPlaceFleet

	case PhaseTargeting:
		if g.turn == viewer {
			return PromptYourTurn
		}
		return PromptEnemyTurn

	case PhaseResolving:
		if g.lastShooter == viewer {
			switch g.lastResult {
			case Hit:
				return PromptHit
			case HitAndSunk:
				return PromptSunk
			default:
				return PromptMiss
			}
		}
		switch g.lastResult {
		case Hit:
			return PromptEnemyHit
		case HitAndSunk:
			return PromptEnemySunk
		default:
			return PromptEnemyMiss
		}

	case PhaseOver:
		if g.winner == viewer {
			return PromptVictory
		}
		return PromptDefeat
	}
	return PromptNone
}

// State returns the current game state. Score counts the viewer's hits
// on the enemy fleet.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.sides[g.viewer].hits,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Phase returns the current battle phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// Turn returns which side fires next.
func (g *Game) Turn() core.PlayerID {
	return g.turn
}

// Cursor returns the current aim cell.
func (g *Game) Cursor() Coord {
	return g.cursor
}

// Fleet returns one side's fleet. Online clients only ever hold their
// own; the opponent's is nil there.
func (g *Game) Fleet(id core.PlayerID) *Fleet {
	return g.sides[id].fleet
}

// IsGameOver returns true if the battle has ended.
func (g *Game) IsGameOver() bool {
	return g.gameOver
}

// Winner returns the winning side, or NoPlayer while the battle runs.
func (g *Game) Winner() core.PlayerID {
	return g.winner
}

// Score1 returns Player 1's hit count.
func (g *Game) Score1() int {
	return g.sides[core.Player1].hits
}

// Score2 returns Player 2's hit count.
func (g *Game) Score2() int {
	return g.sides[core.Player2].hits
}

// ShotsFired returns how many shots one side has taken.
func (g *Game) ShotsFired(id core.PlayerID) int {
	return g.sides[id].fired
}
