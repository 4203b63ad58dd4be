package battle

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-armada/internal/core"
)

func TestSnapshotHidesEnemyFleet(t *testing.T) {
	g := New()
	g.Reset(testRuntime(100))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Cruiser", C(2, 3), Horizontal, 3)))

	v1 := g.SnapshotFor(core.Player1).(BattleView)
	if len(v1.OwnShips) != 1 || v1.OwnShips[0].Name != "Destroyer" {
		t.Fatalf("Player 1 view should carry only their destroyer, got %+v", v1.OwnShips)
	}
	if v1.OwnShips[0].X != 0 || v1.OwnShips[0].Y != 7 {
		t.Errorf("Player 1 ship should sit at (0,7), got (%d,%d)",
			v1.OwnShips[0].X, v1.OwnShips[0].Y)
	}

	v2 := g.SnapshotFor(core.Player2).(BattleView)
	if len(v2.OwnShips) != 1 || v2.OwnShips[0].Name != "Cruiser" {
		t.Fatalf("Player 2 view should carry only their cruiser, got %+v", v2.OwnShips)
	}
}

func TestSnapshotSplitsShotsBySide(t *testing.T) {
	g := New()
	g.Reset(testRuntime(101))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Cruiser", C(2, 3), Horizontal, 3)))

	var res core.StepResult
	g.fire(core.Player1, C(2, 3), &res)

	v1 := g.SnapshotFor(core.Player1).(BattleView)
	if len(v1.OwnShots) != 1 || len(v1.Incoming) != 0 {
		t.Errorf("Player 1 fired once: own=%d incoming=%d",
			len(v1.OwnShots), len(v1.Incoming))
	}
	if v1.OwnShots[0].X != 2 || v1.OwnShots[0].Y != 3 {
		t.Errorf("Shot should record its cell, got (%d,%d)",
			v1.OwnShots[0].X, v1.OwnShots[0].Y)
	}
	if ShotMark(v1.OwnShots[0].Mark) != MarkHit {
		t.Errorf("Shot on a cruiser should mark a hit, got %v",
			ShotMark(v1.OwnShots[0].Mark))
	}

	// The same shot arrives on Player 2's board as incoming fire
	v2 := g.SnapshotFor(core.Player2).(BattleView)
	if len(v2.OwnShots) != 0 || len(v2.Incoming) != 1 {
		t.Errorf("Player 2 has not fired: own=%d incoming=%d",
			len(v2.OwnShots), len(v2.Incoming))
	}
	if v2.OwnShips[0].Damage != 1 {
		t.Errorf("Player 2's cruiser should carry the damage, got %d",
			v2.OwnShips[0].Damage)
	}
}

func TestApplyViewMirrorsServerState(t *testing.T) {
	server := New()
	server.Reset(testRuntime(102))
	readyGame(server,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Cruiser", C(2, 3), Horizontal, 3)))

	var res core.StepResult
	server.fire(core.Player1, C(2, 3), &res)
	server.phase = PhaseTargeting
	server.turn = core.Player2
	server.fire(core.Player2, C(5, 5), &res)

	view := server.SnapshotFor(core.Player2).(BattleView)

	client := NewOnline(ModeClassic)
	client.Reset(testRuntime(999)) // a different seed must not matter
	client.ApplyView(view)

	if client.viewer != core.Player2 {
		t.Fatalf("Client should view as Player 2, got %v", client.viewer)
	}
	if client.phase != server.phase || client.turn != server.turn {
		t.Errorf("Flow mismatch: phase %v/%v turn %v/%v",
			client.phase, server.phase, client.turn, server.turn)
	}

	// Own fleet rebuilt with damage intact
	fleet := client.sides[core.Player2].fleet
	if fleet.Size() != 1 {
		t.Fatalf("Client fleet should hold one ship, got %d", fleet.Size())
	}
	cruiser := fleet.ShipAt(C(2, 3))
	if cruiser == nil || cruiser.Damage() != 1 {
		t.Fatalf("Cruiser should carry its damage on the client, got %+v", cruiser)
	}

	// Shot boards land on the right sides
	if client.sides[core.Player2].mark(C(5, 5)) != MarkMiss {
		t.Error("Client should see their own miss at (5,5)")
	}
	if client.sides[core.Player1].mark(C(2, 3)) != MarkHit {
		t.Error("Client should see the incoming hit at (2,3)")
	}

	// The enemy fleet never crosses the net
	if enemy := client.sides[core.Player1].fleet; enemy != nil && enemy.Size() > 0 {
		t.Errorf("Client should know nothing about the enemy fleet, got %d ships",
			enemy.Size())
	}

	// Player 2's only shot missed; the incoming hit belongs to Player 1
	if client.State().Score != 0 {
		t.Errorf("Client score should count their own hits, got %d", client.State().Score)
	}
	if client.sides[core.Player1].hits != 1 {
		t.Errorf("Enemy hit tally should arrive with the view, got %d",
			client.sides[core.Player1].hits)
	}
}

func TestApplyViewRendersForViewer(t *testing.T) {
	server := New()
	server.Reset(testRuntime(103))
	readyGame(server,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Cruiser", C(2, 3), Horizontal, 3)))

	view := server.SnapshotFor(core.Player2).(BattleView)

	client := NewOnline(ModeClassic)
	client.Reset(testRuntime(1))
	client.ApplyView(view)

	screen := core.NewScreen(100, 30)
	client.Render(screen)

	content := screen.String()
	if !strings.Contains(content, "YOUR FLEET") {
		t.Fatal("Client render should label the own board")
	}

	// The cruiser shows up on the client's own board
	x := client.ownRect.X + 2*client.cellW + (client.cellW-1)/2
	y := client.ownRect.Y + 3*client.cellH + (client.cellH-1)/2
	if screen.Get(x, y) != client.theme.Ship {
		t.Errorf("Own board should draw the cruiser at (2,3), got %q", screen.Get(x, y))
	}

	// The enemy board shows nothing but water before any shots
	ex := client.targetRect.X + (client.cellW-1)/2
	ey := client.targetRect.Y + (client.cellH-1)/2
	if screen.Get(ex, ey) != client.theme.Water {
		t.Errorf("Enemy board should start as open water, got %q", screen.Get(ex, ey))
	}
}

func TestSnapshotDefaultsToPlayerOne(t *testing.T) {
	g := New()
	g.Reset(testRuntime(104))
	readyGame(g,
		NewFleet(NewShip("Destroyer", C(0, 7), Horizontal, 2)),
		NewFleet(NewShip("Cruiser", C(2, 3), Horizontal, 3)))

	v := g.Snapshot().(BattleView)
	if v.Viewer != int(core.Player1) {
		t.Errorf("Snapshot should view as Player 1, got %d", v.Viewer)
	}
}
