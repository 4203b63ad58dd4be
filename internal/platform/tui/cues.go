package tui

import (
	"io"
	"os"

	"github.com/vovakirdan/tui-armada/internal/core"
)

// muted is a process-wide switch set once at startup from the CLI.
var muted bool

// SetMuted silences all cue bells.
func SetMuted(m bool) {
	muted = m
}

// CueBell turns battle cues into terminal bells. BEL is invisible to
// the renderer, so ringing mid-frame cannot smear the board.
type CueBell struct {
	out io.Writer
}

// NewCueBell creates a bell writer. A nil writer rings on stdout.
func NewCueBell(out io.Writer) *CueBell {
	if out == nil {
		out = os.Stdout
	}
	return &CueBell{out: out}
}

// Ring sounds at most one bell for a batch of cues. Terminals have no
// mixer; a shot that hits and sinks in the same tick still dings once.
func (b *CueBell) Ring(cues []core.Cue) {
	if b == nil || muted || len(cues) == 0 {
		return
	}
	//nolint:errcheck // Fire-and-forget, a lost ding is not an error
	b.out.Write([]byte{'\a'})
}
