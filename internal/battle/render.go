package battle

import (
	"fmt"

	"github.com/vovakirdan/tui-armada/internal/config"
	"github.com/vovakirdan/tui-armada/internal/core"
)

// Theme holds the resolved glyphs and colors for drawing the boards.
type Theme struct {
	Water  rune
	Ship   rune
	Miss   rune
	Hit    rune
	Sunk   rune
	Cursor rune

	WaterColor core.Color
	ShipColor  core.Color
	MissColor  core.Color
	HitColor   core.Color
	SunkColor  core.Color
	GridColor  core.Color
}

// ThemeFromConfig resolves a config theme into runes and colors.
// Unknown colors and empty glyphs fall back to the default theme.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	return Theme{
		Water:  firstRune(tc.WaterGlyph, '·'),
		Ship:   firstRune(tc.ShipGlyph, '█'),
		Miss:   firstRune(tc.MissGlyph, '◦'),
		Hit:    firstRune(tc.HitGlyph, '✸'),
		Sunk:   firstRune(tc.SunkGlyph, '▓'),
		Cursor: firstRune(tc.CursorGlyph, '+'),

		WaterColor: colorOr(tc.WaterColor, core.ColorBlue),
		ShipColor:  colorOr(tc.ShipColor, core.ColorWhite),
		MissColor:  colorOr(tc.MissColor, core.ColorBrightCyan),
		HitColor:   colorOr(tc.HitColor, core.ColorBrightRed),
		SunkColor:  colorOr(tc.SunkColor, core.ColorRed),
		GridColor:  colorOr(tc.GridColor, core.ColorGray),
	}
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

func colorOr(name string, fallback core.Color) core.Color {
	if c, ok := core.ParseColor(name); ok {
		return c
	}
	return fallback
}

// Render draws both boards from the viewer's side of the table: own
// fleet with incoming shots on the left, the enemy waters with only
// the viewer's own shots on the right.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Follow terminal resizes without resetting the battle. Boards are
	// re-centered for the new dimensions; fleets and shots stay put.
	if dst.Width() != g.runtime.ScreenW || dst.Height() != g.runtime.ScreenH {
		g.runtime.ScreenW = dst.Width()
		g.runtime.ScreenH = dst.Height()
		g.calculateLayout()
	}

	if g.tooSmall {
		g.drawCenteredMessage(dst, "TERMINAL TOO SMALL",
			fmt.Sprintf("Need %dx%d for a %d grid", g.boardsWidth(3, 4), g.gridSize+6, g.gridSize))
		return
	}
	if g.placeFailed {
		g.drawCenteredMessage(dst, "FLEET DOES NOT FIT", "Check the fleet section of the config")
		return
	}

	own := g.sides[g.viewer]
	opp := g.sides[g.viewer.Opponent()]

	// Title
	dst.DrawTextCenteredColored(0, g.Title(), core.ColorBrightWhite)

	// Board headers
	dst.DrawTextColored(g.ownRect.X, 1,
		fmt.Sprintf("YOUR FLEET  %d/%d afloat", own.fleet.Afloat(), own.fleet.Size()),
		g.theme.GridColor)
	dst.DrawTextColored(g.targetRect.X, 1,
		fmt.Sprintf("ENEMY WATERS  %d hits / %d shots", own.hits, own.fired),
		g.theme.GridColor)

	g.drawLabels(dst, g.ownRect)
	g.drawLabels(dst, g.targetRect)
	g.drawOwnBoard(dst, own, opp)
	g.drawTargetBoard(dst, own)

	// Console line
	prompt := g.promptFor(g.viewer)
	dst.DrawTextCenteredColored(g.statusY, prompt.Text(), promptColor(prompt, g.theme))
	dst.DrawTextCenteredColored(g.statusY+1, g.hints(), core.ColorGray)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
	if g.gameOver {
		g.drawGameOver(dst, own)
	}
}

// drawLabels draws column letters above and row numbers left of a board.
func (g *Game) drawLabels(dst *core.Screen, rect core.Rect) {
	for col := 0; col < g.gridSize; col++ {
		x := rect.X + col*g.cellW + (g.cellW-1)/2
		dst.SetColored(x, rect.Y-1, rune('A'+col), g.theme.GridColor)
	}
	for row := 0; row < g.gridSize; row++ {
		y := rect.Y + row*g.cellH + (g.cellH-1)/2
		dst.DrawTextColored(rect.X-3, y, fmt.Sprintf("%2d", row+1), g.theme.GridColor)
	}
}

// drawOwnBoard shows the viewer's fleet and the shots the enemy has
// landed on it. Incoming marks live on the opponent's shot board.
func (g *Game) drawOwnBoard(dst *core.Screen, own, opp *side) {
	for row := 0; row < g.gridSize; row++ {
		for col := 0; col < g.gridSize; col++ {
			c := C(col, row)
			glyph, color := g.theme.Water, g.theme.WaterColor

			if own.fleet != nil && own.fleet.ShipAt(c) != nil {
				glyph, color = g.theme.Ship, g.theme.ShipColor
			}
			switch opp.mark(c) {
			case MarkMiss:
				glyph, color = g.theme.Miss, g.theme.MissColor
			case MarkHit:
				glyph, color = g.theme.Hit, g.theme.HitColor
			case MarkSunk:
				glyph, color = g.theme.Sunk, g.theme.SunkColor
			}

			g.drawCell(dst, g.ownRect, c, glyph, color)
		}
	}
}

// drawTargetBoard shows only what the viewer has learned by shooting.
// The enemy fleet is never consulted here.
func (g *Game) drawTargetBoard(dst *core.Screen, own *side) {
	aiming := g.phase == PhaseTargeting && g.turn == g.viewer

	for row := 0; row < g.gridSize; row++ {
		for col := 0; col < g.gridSize; col++ {
			c := C(col, row)
			glyph, color := g.theme.Water, g.theme.WaterColor

			switch own.mark(c) {
			case MarkMiss:
				glyph, color = g.theme.Miss, g.theme.MissColor
			case MarkHit:
				glyph, color = g.theme.Hit, g.theme.HitColor
			case MarkSunk:
				glyph, color = g.theme.Sunk, g.theme.SunkColor
			}

			if aiming && c == g.cursor {
				g.drawCursor(dst, c, glyph, color)
				continue
			}
			g.drawCell(dst, g.targetRect, c, glyph, color)
		}
	}
}

// drawCell draws one board cell's glyph at its visual center.
func (g *Game) drawCell(dst *core.Screen, rect core.Rect, c Coord, glyph rune, color core.Color) {
	x := rect.X + c.X*g.cellW + (g.cellW-1)/2
	y := rect.Y + c.Y*g.cellH + (g.cellH-1)/2
	dst.SetColored(x, y, glyph, color)
}

// drawCursor highlights the aim cell. Wide cells get brackets around
// the glyph; narrow ones just recolor it.
func (g *Game) drawCursor(dst *core.Screen, c Coord, glyph rune, color core.Color) {
	x := g.targetRect.X + c.X*g.cellW + (g.cellW-1)/2
	y := g.targetRect.Y + c.Y*g.cellH + (g.cellH-1)/2

	if g.cellW >= 3 {
		dst.SetColored(x-1, y, '[', core.ColorBrightYellow)
		dst.SetColored(x, y, glyph, color)
		dst.SetColored(x+1, y, ']', core.ColorBrightYellow)
		return
	}
	dst.SetColored(x, y, glyph, core.ColorBrightYellow)
}

// drawGameOver draws the end-of-battle banner with the final tally.
func (g *Game) drawGameOver(dst *core.Screen, own *side) {
	title := "DEFEAT"
	if g.winner == g.viewer {
		title = "VICTORY!"
	}

	accuracy := 0
	if own.fired > 0 {
		accuracy = own.hits * 100 / own.fired
	}
	subtitle := fmt.Sprintf("%d hits / %d shots (%d%%)", own.hits, own.fired, accuracy)
	if g.vsCPU {
		subtitle += "  |  Press R to restart"
	}
	g.drawCenteredMessage(dst, title, subtitle)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}

// hints returns the key reference line for the current phase.
func (g *Game) hints() string {
	switch g.phase {
	case PhasePlacing:
		return "H shuffle  Enter confirm  Q quit"
	case PhaseOver:
		if g.vsCPU {
			return "R restart  Q quit"
		}
		return "Q quit"
	default:
		if g.vsCPU {
			return "Arrows aim  Space/click fire  P pause  Q quit"
		}
		return "Arrows aim  Space/click fire  Q quit"
	}
}

// promptColor picks a console color matching the weight of the prompt.
func promptColor(p Prompt, theme Theme) core.Color {
	switch p {
	case PromptHit, PromptSunk:
		return theme.HitColor
	case PromptEnemyHit, PromptEnemySunk:
		return theme.SunkColor
	case PromptVictory:
		return core.ColorBrightGreen
	case PromptDefeat:
		return core.ColorBrightRed
	case PromptYourTurn:
		return core.ColorBrightWhite
	default:
		return core.ColorGray
	}
}
