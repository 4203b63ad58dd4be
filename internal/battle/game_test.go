package battle

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-armada/internal/core"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  100,
		ScreenH:  30,
		TickRate: 60,
		Seed:     seed,
	}
}

// readyGame resets a game and fast-forwards past placement with known
// fleets so tests can aim at exact cells. Player 1 moves first.
func readyGame(g *Game, p1, p2 *Fleet) {
	g.sides[core.Player1].fleet = p1
	g.sides[core.Player2].fleet = p2
	g.sides[core.Player1].ready = true
	g.sides[core.Player2].ready = true
	g.phase = PhaseTargeting
	g.turn = core.Player1
}

// stepUntilPhase runs empty ticks until the game reaches the wanted
// phase, failing the test if it never does.
func stepUntilPhase(t *testing.T, g *Game, want Phase, maxTicks int) {
	t.Helper()
	empty := core.NewInputFrame()
	for i := 0; i < maxTicks; i++ {
		if g.phase == want {
			return
		}
		g.Step(empty)
	}
	t.Fatalf("Phase never reached %v after %d ticks, still %v", want, maxTicks, g.phase)
}

func TestResolveMiss(t *testing.T) {
	g := New()
	g.Reset(testRuntime(1))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	result := g.resolveShot(core.Player1, C(0, 0))

	if result != Miss {
		t.Errorf("Shot at open water should be Miss, got %v", result)
	}
	if g.sides[core.Player1].mark(C(0, 0)) != MarkMiss {
		t.Error("Missed cell should carry a miss mark")
	}
	if g.sides[core.Player1].fired != 1 || g.sides[core.Player1].hits != 0 {
		t.Errorf("Expected 1 shot 0 hits, got %d/%d",
			g.sides[core.Player1].fired, g.sides[core.Player1].hits)
	}
}

func TestResolveHitThenSunk(t *testing.T) {
	g := New()
	g.Reset(testRuntime(2))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(
			NewShip("Destroyer", C(2, 3), Horizontal, 2),
			NewShip("Submarine", C(6, 6), Horizontal, 1),
		))

	if got := g.resolveShot(core.Player1, C(2, 3)); got != Hit {
		t.Fatalf("First hit on a 2-cell ship should be Hit, got %v", got)
	}
	if g.sides[core.Player1].mark(C(2, 3)) != MarkHit {
		t.Error("Hit cell should carry a hit mark")
	}

	// Second cell takes the ship down, but another ship is afloat
	if got := g.resolveShot(core.Player1, C(3, 3)); got != HitAndSunk {
		t.Fatalf("Sinking a ship with others afloat should be HitAndSunk, got %v", got)
	}

	// Both cells of the sunk ship upgrade to sunk marks
	if g.sides[core.Player1].mark(C(2, 3)) != MarkSunk {
		t.Error("First cell of sunk ship should upgrade to a sunk mark")
	}
	if g.sides[core.Player1].mark(C(3, 3)) != MarkSunk {
		t.Error("Second cell of sunk ship should carry a sunk mark")
	}
}

func TestOneCellShipSinksOnFirstHit(t *testing.T) {
	g := New()
	g.Reset(testRuntime(9))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(
			NewShip("Destroyer", C(2, 3), Horizontal, 2),
			NewShip("Submarine", C(6, 6), Horizontal, 1),
		))

	// A single-cell ship has no plain-Hit state: first hit sinks it
	if got := g.resolveShot(core.Player1, C(6, 6)); got != HitAndSunk {
		t.Errorf("Hitting a 1-cell ship with others afloat should be HitAndSunk, got %v", got)
	}
	if g.sides[core.Player1].mark(C(6, 6)) != MarkSunk {
		t.Error("Sunk 1-cell ship should carry a sunk mark")
	}
}

func TestLastShipSinksAsGameOver(t *testing.T) {
	g := New()
	g.Reset(testRuntime(3))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Submarine", C(4, 4), Horizontal, 1)))

	// Sinking the last ship reports GameOver, never HitAndSunk
	if got := g.resolveShot(core.Player1, C(4, 4)); got != GameOver {
		t.Errorf("Last cell of last ship should be GameOver, got %v", got)
	}
	if g.sides[core.Player1].mark(C(4, 4)) != MarkSunk {
		t.Error("Final cell should carry a sunk mark")
	}
}

func TestFireSetsWinner(t *testing.T) {
	g := New()
	g.Reset(testRuntime(4))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Submarine", C(4, 4), Horizontal, 1)))

	var res core.StepResult
	g.fire(core.Player1, C(4, 4), &res)

	if !g.gameOver {
		t.Fatal("Game should be over after the last ship sinks")
	}
	if g.winner != core.Player1 {
		t.Errorf("Winner should be Player 1, got %v", g.winner)
	}
	if g.phase != PhaseOver {
		t.Errorf("Phase should be Over, got %v", g.phase)
	}

	sawVictory := false
	for _, cue := range res.Cues {
		if cue == core.CueVictory {
			sawVictory = true
		}
	}
	if !sawVictory {
		t.Error("Winning shot should cue the victory sting")
	}
}

func TestRepeatShotRefused(t *testing.T) {
	g := New()
	g.Reset(testRuntime(5))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	var res core.StepResult
	g.fire(core.Player1, C(5, 5), &res)
	if g.sides[core.Player1].fired != 1 {
		t.Fatalf("First shot should register, fired=%d", g.sides[core.Player1].fired)
	}

	// Force the turn back and fire at the same cell again
	g.phase = PhaseTargeting
	g.turn = core.Player1

	var res2 core.StepResult
	g.fire(core.Player1, C(5, 5), &res2)

	if g.sides[core.Player1].fired != 1 {
		t.Errorf("Repeat shot should not register, fired=%d", g.sides[core.Player1].fired)
	}
	if g.phase != PhaseTargeting {
		t.Errorf("Refused shot should leave the phase alone, got %v", g.phase)
	}
	if len(res2.Cues) != 0 {
		t.Errorf("Refused shot should stay silent, got cues %v", res2.Cues)
	}
}

func TestTurnPassesOnMiss(t *testing.T) {
	g := New()
	g.Reset(testRuntime(6))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	var res core.StepResult
	g.fire(core.Player1, C(7, 7), &res)
	if g.phase != PhaseResolving {
		t.Fatalf("Shot should enter Resolving, got %v", g.phase)
	}

	stepUntilPhase(t, g, PhaseTargeting, 200)
	if g.turn != core.Player2 {
		t.Errorf("Turn should pass to Player 2 after a miss, got %v", g.turn)
	}
}

func TestTurnPassesOnHitInClassic(t *testing.T) {
	g := New()
	g.Reset(testRuntime(7))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	var res core.StepResult
	g.fire(core.Player1, C(2, 3), &res)

	stepUntilPhase(t, g, PhaseTargeting, 200)
	if g.turn != core.Player2 {
		t.Errorf("Classic rules pass the turn even on a hit, got %v", g.turn)
	}
}

func TestStreakKeepsTurnOnHit(t *testing.T) {
	g := NewStreak()
	g.Reset(testRuntime(8))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	var res core.StepResult
	g.fire(core.Player1, C(2, 3), &res)

	stepUntilPhase(t, g, PhaseTargeting, 200)
	if g.turn != core.Player1 {
		t.Errorf("Streak rules keep the turn after a hit, got %v", g.turn)
	}

	// A miss still hands the turn over
	g.fire(core.Player1, C(7, 7), &res)
	stepUntilPhase(t, g, PhaseTargeting, 200)
	if g.turn != core.Player2 {
		t.Errorf("Streak rules pass the turn after a miss, got %v", g.turn)
	}
}

func TestClickInsideEnemyBoardFires(t *testing.T) {
	g := New()
	g.Reset(testRuntime(9))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	// Click the pixel at the top-left corner of cell (2, 3)
	px := g.targetRect.X + 2*g.cellW
	py := g.targetRect.Y + 3*g.cellH

	in := core.NewInputFrame()
	in.SetClick(px, py)
	g.Step(in)

	if g.sides[core.Player1].fired != 1 {
		t.Fatalf("Click inside the enemy board should fire, fired=%d",
			g.sides[core.Player1].fired)
	}
	if g.sides[core.Player1].mark(C(2, 3)) == MarkNone {
		t.Error("Shot should land on the clicked cell")
	}
	if g.cursor != C(2, 3) {
		t.Errorf("Cursor should move to the clicked cell, got %v", g.cursor)
	}
}

func TestClickOutsideEnemyBoardIgnored(t *testing.T) {
	g := New()
	g.Reset(testRuntime(10))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	// Own board, the gutter between boards, one past each far edge of
	// the enemy board, and the screen corner: none of these may fire.
	clicks := []core.Click{
		{X: g.ownRect.X + 1, Y: g.ownRect.Y + 1},
		{X: g.targetRect.X - 1, Y: g.targetRect.Y},
		{X: g.targetRect.X + g.targetRect.W, Y: g.targetRect.Y},
		{X: g.targetRect.X, Y: g.targetRect.Y + g.targetRect.H},
		{X: 0, Y: 0},
	}

	for _, click := range clicks {
		in := core.NewInputFrame()
		in.SetClick(click.X, click.Y)
		g.Step(in)
	}

	if g.sides[core.Player1].fired != 0 {
		t.Errorf("Clicks outside the enemy board should never fire, fired=%d",
			g.sides[core.Player1].fired)
	}
	if g.phase != PhaseTargeting {
		t.Errorf("Phase should still be Targeting, got %v", g.phase)
	}
}

func TestCursorStaysOnGrid(t *testing.T) {
	g := New()
	g.Reset(testRuntime(11))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	in := core.NewInputFrame()
	in.Set(core.ActionUp)
	for i := 0; i < g.gridSize*2; i++ {
		g.Step(in)
	}
	if g.cursor.Y != 0 {
		t.Errorf("Cursor should clamp at the top row, got %v", g.cursor)
	}

	in.Clear()
	in.Set(core.ActionRight)
	for i := 0; i < g.gridSize*2; i++ {
		g.Step(in)
	}
	if g.cursor.X != g.gridSize-1 {
		t.Errorf("Cursor should clamp at the right edge, got %v", g.cursor)
	}
}

func TestCPUFiresWhenDelayExpires(t *testing.T) {
	g := New()
	g.Reset(testRuntime(12))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	g.turn = core.Player2
	g.cpuTicks = 3

	empty := core.NewInputFrame()
	for i := 0; i < 4; i++ {
		if g.sides[core.Player2].fired != 0 {
			t.Fatalf("CPU fired %d ticks early", 4-i)
		}
		g.Step(empty)
	}

	if g.sides[core.Player2].fired != 1 {
		t.Errorf("CPU should fire once the delay expires, fired=%d",
			g.sides[core.Player2].fired)
	}
}

func TestPlacementConfirmStartsBattle(t *testing.T) {
	g := New()
	g.Reset(testRuntime(13))

	if g.phase != PhasePlacing {
		t.Fatalf("Game should start in Placing, got %v", g.phase)
	}
	if !g.sides[core.Player2].ready {
		t.Fatal("CPU side should be ready immediately")
	}

	in := core.NewInputFrame()
	in.Set(core.ActionConfirm)
	g.Step(in)

	if g.phase != PhaseTargeting {
		t.Errorf("Confirm should start the battle, got %v", g.phase)
	}
	if g.turn != core.Player1 {
		t.Errorf("Player 1 moves first, got %v", g.turn)
	}
}

func TestShuffleKeepsFleetLegal(t *testing.T) {
	g := New()
	g.Reset(testRuntime(14))

	cells := g.sides[core.Player1].fleet.CellCount()

	in := core.NewInputFrame()
	in.Set(core.ActionShuffle)
	for i := 0; i < 5; i++ {
		g.Step(in)

		fleet := g.sides[core.Player1].fleet
		if fleet.CellCount() != cells {
			t.Fatalf("Shuffle changed the fleet size: %d vs %d", fleet.CellCount(), cells)
		}
		for _, ship := range fleet.Ships() {
			for _, c := range ship.Cells() {
				if !c.In(g.gridSize) {
					t.Fatalf("Shuffle placed %s off the grid at %v", ship.Name(), c)
				}
			}
		}
	}

	if g.phase != PhasePlacing {
		t.Errorf("Shuffle should not leave Placing, got %v", g.phase)
	}
}

func TestDeterminism(t *testing.T) {
	// Two games with the same seed and inputs should stay identical
	run := func() *Game {
		g := New()
		g.Reset(testRuntime(12345))

		targets := []Coord{
			C(0, 0), C(1, 1), C(2, 2), C(3, 3),
			C(4, 4), C(5, 5), C(6, 6), C(7, 7),
		}
		next := 0

		for i := 0; i < 1500; i++ {
			in := core.NewInputFrame()
			if g.phase == PhasePlacing {
				in.Set(core.ActionConfirm)
			} else if g.phase == PhaseTargeting && g.turn == core.Player1 && next < len(targets) {
				c := targets[next]
				next++
				in.SetClick(g.targetRect.X+c.X*g.cellW, g.targetRect.Y+c.Y*g.cellH)
			}
			g.Step(in)
			if g.gameOver {
				break
			}
		}
		return g
	}

	g1 := run()
	g2 := run()

	v1 := g1.SnapshotFor(core.Player1).(BattleView)
	v2 := g2.SnapshotFor(core.Player1).(BattleView)

	if v1.Tick != v2.Tick {
		t.Errorf("Tick mismatch: %d vs %d", v1.Tick, v2.Tick)
	}
	if v1.Phase != v2.Phase || v1.Turn != v2.Turn {
		t.Errorf("Flow mismatch: phase %d/%d turn %d/%d", v1.Phase, v2.Phase, v1.Turn, v2.Turn)
	}
	if v1.Score1 != v2.Score1 || v1.Score2 != v2.Score2 {
		t.Errorf("Score mismatch: %d-%d vs %d-%d", v1.Score1, v1.Score2, v2.Score1, v2.Score2)
	}
	if v1.Fired1 != v2.Fired1 || v1.Fired2 != v2.Fired2 {
		t.Errorf("Shot count mismatch: %d/%d vs %d/%d", v1.Fired1, v1.Fired2, v2.Fired1, v2.Fired2)
	}
	if len(v1.OwnShips) != len(v2.OwnShips) {
		t.Fatalf("Fleet size mismatch: %d vs %d", len(v1.OwnShips), len(v2.OwnShips))
	}
	for i := range v1.OwnShips {
		if v1.OwnShips[i] != v2.OwnShips[i] {
			t.Errorf("Ship %d differs: %+v vs %+v", i, v1.OwnShips[i], v2.OwnShips[i])
		}
	}
	if len(v1.OwnShots) != len(v2.OwnShots) {
		t.Fatalf("Shot board mismatch: %d vs %d", len(v1.OwnShots), len(v2.OwnShots))
	}
	for i := range v1.OwnShots {
		if v1.OwnShots[i] != v2.OwnShots[i] {
			t.Errorf("Shot %d differs: %+v vs %+v", i, v1.OwnShots[i], v2.OwnShots[i])
		}
	}
	if len(v1.Incoming) != len(v2.Incoming) {
		t.Fatalf("Incoming board mismatch: %d vs %d", len(v1.Incoming), len(v2.Incoming))
	}
	for i := range v1.Incoming {
		if v1.Incoming[i] != v2.Incoming[i] {
			t.Errorf("Incoming shot %d differs: %+v vs %+v", i, v1.Incoming[i], v2.Incoming[i])
		}
	}
}

func TestGameIDs(t *testing.T) {
	classic := New()
	if classic.ID() != "battle" {
		t.Errorf("Classic ID should be 'battle', got %s", classic.ID())
	}

	streak := NewStreak()
	if streak.ID() != "battle_streak" {
		t.Errorf("Streak ID should be 'battle_streak', got %s", streak.ID())
	}
}

func TestTitles(t *testing.T) {
	classic := New()
	if classic.Title() != "Sea Battle" {
		t.Errorf("Classic title should be 'Sea Battle', got %s", classic.Title())
	}

	streak := NewStreak()
	if streak.Title() != "Sea Battle (Streak)" {
		t.Errorf("Streak title should be 'Sea Battle (Streak)', got %s", streak.Title())
	}
}

func TestWindowTooSmall(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{
		ScreenW:  20,
		ScreenH:  10,
		TickRate: 60,
		Seed:     333,
	})

	if !g.tooSmall {
		t.Fatal("Game should detect the window is too small")
	}

	// Input should be ignored while the board cannot be shown
	in := core.NewInputFrame()
	in.Set(core.ActionConfirm)
	g.Step(in)
	if g.phase != PhasePlacing {
		t.Errorf("Phase should not advance on a too-small screen, got %v", g.phase)
	}
}

func TestRenderShowsBoards(t *testing.T) {
	g := New()
	g.Reset(testRuntime(444))

	screen := core.NewScreen(100, 30)
	g.Render(screen)

	content := screen.String()
	if !strings.Contains(content, "Sea Battle") {
		t.Error("Render should show the title")
	}
	if !strings.Contains(content, "YOUR FLEET") {
		t.Error("Render should label the player's board")
	}
	if !strings.Contains(content, "ENEMY WATERS") {
		t.Error("Render should label the target board")
	}
}

func TestRenderHidesEnemyShips(t *testing.T) {
	g := New()
	g.Reset(testRuntime(445))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	screen := core.NewScreen(100, 30)
	g.Render(screen)

	// Every unshot cell of the enemy board renders as water
	for row := 0; row < g.gridSize; row++ {
		for col := 0; col < g.gridSize; col++ {
			x := g.targetRect.X + col*g.cellW + (g.cellW-1)/2
			y := g.targetRect.Y + row*g.cellH + (g.cellH-1)/2
			got := screen.Get(x, y)
			if got != g.theme.Water && got != g.theme.Cursor && got != '[' && got != ']' {
				t.Errorf("Enemy cell (%d,%d) leaked glyph %q before any shot", col, row, got)
			}
		}
	}
}

func TestPromptFollowsViewer(t *testing.T) {
	g := New()
	g.Reset(testRuntime(446))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	if g.promptFor(core.Player1) != PromptYourTurn {
		t.Error("Side to move should see the your-turn prompt")
	}
	if g.promptFor(core.Player2) != PromptEnemyTurn {
		t.Error("Waiting side should see the enemy-turn prompt")
	}

	var res core.StepResult
	g.fire(core.Player1, C(2, 3), &res)

	if g.promptFor(core.Player1) != PromptHit {
		t.Error("Shooter should see the hit prompt")
	}
	if g.promptFor(core.Player2) != PromptEnemyHit {
		t.Error("Defender should see the enemy-hit prompt")
	}
}

func TestStateCountsViewerHits(t *testing.T) {
	g := New()
	g.Reset(testRuntime(447))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Destroyer", C(2, 3), Horizontal, 2)))

	var res core.StepResult
	g.fire(core.Player1, C(2, 3), &res)

	state := g.State()
	if state.Score != 1 {
		t.Errorf("Score should count hits, got %d", state.Score)
	}
	if state.GameOver {
		t.Error("Game should not be over after one hit")
	}
}
