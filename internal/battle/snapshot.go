package battle

import (
	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

// ShotCell is one resolved shot for network transmission.
type ShotCell struct {
	X    int
	Y    int
	Mark uint8
}

// ShipView is one of the viewer's own ships. Enemy ships are never
// transmitted; the opponent learns about them one shot at a time.
type ShipView struct {
	Name       string
	X          int
	Y          int
	Horizontal bool
	Length     int
	Damage     int
}

// BattleView contains everything one side of a battle is allowed to
// see. Uses primitive types only for stable serialization.
type BattleView struct {
	Tick     uint64
	Mode     string
	GridSize int
	Viewer   int // 1=Player1, 2=Player2
	Phase    int
	Turn     int
	CursorX  int
	CursorY  int

	OwnShips   []ShipView
	OwnShots   []ShotCell // viewer's shots into enemy waters
	Incoming   []ShotCell // enemy shots onto the viewer's board
	OwnReady   bool
	EnemyReady bool

	LastShooter int
	LastTargetX int
	LastTargetY int
	LastResult  int

	Score1 int
	Score2 int
	Fired1 int
	Fired2 int

	GameOver bool
	Winner   int // 0 until a fleet sinks, then 1 or 2
}

// IsGameSnapshot marks BattleView as snapshot payload.
func (BattleView) IsGameSnapshot() {}

var _ multiplayer.GameSnapshot = BattleView{}

// Snapshot returns Player 1's view of the battle.
func (g *Game) Snapshot() multiplayer.GameSnapshot {
	return g.SnapshotFor(core.Player1)
}

// SnapshotFor returns one side's view of the battle. The opponent's
// fleet is withheld; only shot marks cross the net.
func (g *Game) SnapshotFor(viewer core.PlayerID) multiplayer.GameSnapshot {
	own := g.sides[viewer]
	opp := g.sides[viewer.Opponent()]

	view := BattleView{
		Tick:     g.tick,
		Mode:     string(g.mode),
		GridSize: g.gridSize,
		Viewer:   int(viewer),
		Phase:    int(g.phase),
		Turn:     int(g.turn),
		CursorX:  g.cursor.X,
		CursorY:  g.cursor.Y,

		OwnReady:   own.ready,
		EnemyReady: opp.ready,

		LastShooter: int(g.lastShooter),
		LastTargetX: g.lastTarget.X,
		LastTargetY: g.lastTarget.Y,
		LastResult:  int(g.lastResult),

		Score1: g.sides[core.Player1].hits,
		Score2: g.sides[core.Player2].hits,
		Fired1: g.sides[core.Player1].fired,
		Fired2: g.sides[core.Player2].fired,

		GameOver: g.gameOver,
		Winner:   int(g.winner),
	}

	if own.fleet != nil {
		for _, ship := range own.fleet.Ships() {
			view.OwnShips = append(view.OwnShips, ShipView{
				Name:       ship.Name(),
				X:          ship.Bow().X,
				Y:          ship.Bow().Y,
				Horizontal: ship.Horizontal(),
				Length:     ship.Length(),
				Damage:     ship.Damage(),
			})
		}
	}

	view.OwnShots = collectShots(own.shots, g.gridSize)
	view.Incoming = collectShots(opp.shots, g.gridSize)
	return view
}

// collectShots flattens a shot board into row-major order so the same
// state always serializes the same way.
func collectShots(shots map[Coord]ShotMark, gridSize int) []ShotCell {
	var out []ShotCell
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			if m, ok := shots[C(col, row)]; ok && m != MarkNone {
				out = append(out, ShotCell{X: col, Y: row, Mark: uint8(m)})
			}
		}
	}
	return out
}

// ApplyView rebuilds local state from a received view. Used by online
// clients to mirror the authoritative battle for rendering; the enemy
// side keeps an empty fleet because the view never includes one.
func (g *Game) ApplyView(view BattleView) {
	g.tick = view.Tick
	g.mode = Mode(view.Mode)
	g.viewer = core.PlayerID(view.Viewer)
	g.phase = Phase(view.Phase)
	g.turn = core.PlayerID(view.Turn)
	g.cursor = C(view.CursorX, view.CursorY)

	g.lastShooter = core.PlayerID(view.LastShooter)
	g.lastTarget = C(view.LastTargetX, view.LastTargetY)
	g.lastResult = HitResult(view.LastResult)

	g.gameOver = view.GameOver
	g.winner = core.PlayerID(view.Winner)

	if g.gridSize != view.GridSize {
		g.gridSize = view.GridSize
		g.calculateLayout()
	}

	own := newSide()
	opp := newSide()

	ships := make([]*Ship, 0, len(view.OwnShips))
	for _, sv := range view.OwnShips {
		o := Vertical
		if sv.Horizontal {
			o = Horizontal
		}
		ship := NewShip(sv.Name, C(sv.X, sv.Y), o, sv.Length)
		for i := 0; i < sv.Damage; i++ {
			ship.Hit()
		}
		ships = append(ships, ship)
	}
	own.fleet = NewFleet(ships...)
	own.ready = view.OwnReady
	opp.ready = view.EnemyReady

	for _, sc := range view.OwnShots {
		own.shots[C(sc.X, sc.Y)] = ShotMark(sc.Mark)
	}
	for _, sc := range view.Incoming {
		opp.shots[C(sc.X, sc.Y)] = ShotMark(sc.Mark)
	}

	if g.viewer == core.Player1 {
		own.hits, own.fired = view.Score1, view.Fired1
		opp.hits, opp.fired = view.Score2, view.Fired2
	} else {
		own.hits, own.fired = view.Score2, view.Fired2
		opp.hits, opp.fired = view.Score1, view.Fired1
	}

	g.sides = map[core.PlayerID]*side{
		g.viewer:            own,
		g.viewer.Opponent(): opp,
	}
}
