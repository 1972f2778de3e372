// internal/playback/controller.go
//
// Playback controller for a single board.
// Responsibilities:
//   - Own the current compiled program, the animation clock and play state.
//   - Replace the program wholesale on every compile; never keep a partial one.
//   - Keep the last compile error for display, overwritten by every attempt.
//   - Evaluate the sequencer at the current clock on demand.
//
// The hanoi package stays pure; this is the only place that mutates state.
package playback

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/akonno/HanoiSimulator/internal/hanoi"
)

// Summary describes a successful compile.
type Summary struct {
	TotalMoves int  `json:"totalMoves"`
	TotalSteps int  `json:"totalSteps"`
	Solved     bool `json:"solved"`
	Optimal    bool `json:"optimal"`
}

// Status is the UI-facing snapshot of a controller.
type Status struct {
	Step        int    `json:"step"`
	TotalSteps  int    `json:"totalSteps"`
	CurrentMove int    `json:"currentMove"` // 1-indexed, capped at TotalMoves
	TotalMoves  int    `json:"totalMoves"`
	DiskCount   int    `json:"diskCount"`
	Playing     bool   `json:"playing"`
	Complete    bool   `json:"complete"`
	Solved      bool   `json:"solved"`
	HasError    bool   `json:"hasError"`
	Error       string `json:"error,omitempty"`
}

// Controller holds one board's program and clock. Safe for concurrent use.
type Controller struct {
	ID string

	mu        sync.Mutex
	diskCount int
	geometry  hanoi.Geometry
	program   *hanoi.Program // nil until a successful compile
	revision  int            // bumped on every compile attempt
	claimed   int            // revision whose finished solve was handed out
	step      int
	playing   bool
	lastErr   error
}

// New constructs a controller for diskCount disks.
func New(diskCount int, g hanoi.Geometry) *Controller {
	if diskCount < 0 {
		diskCount = 0
	}
	return &Controller{ID: randomID(), diskCount: diskCount, geometry: g}
}

// Compile replaces the current program. On failure the board falls back to
// the starting stack and the error is kept for Status.
func (c *Controller) Compile(text string) (Summary, error) {
	p, err := hanoi.Compile(text, c.diskCount)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.revision++
	c.step = 0
	c.playing = false
	c.lastErr = err
	if err != nil {
		c.program = nil
		return Summary{}, err
	}
	c.program = p
	return Summary{
		TotalMoves: p.Len(),
		TotalSteps: p.TotalSteps(c.geometry.StepsPerPhase),
		Solved:     p.Solved(),
		Optimal:    p.Optimal(),
	}, nil
}

// ErrNoProgram is returned by Play before a successful compile.
var ErrNoProgram = errors.New("no compiled program")

// Play starts or resumes playback. A finished playback restarts from 0.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.program == nil {
		return ErrNoProgram
	}
	if c.completeLocked() {
		c.step = 0
	}
	c.playing = true
	return nil
}

// Pause halts the clock; the current frame stays put until resumed.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

// Reset rewinds the clock to 0 and pauses.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.step = 0
	c.playing = false
	c.mu.Unlock()
}

// Tick advances the clock by frames while playing and reports whether this
// call finished the playback.
func (c *Controller) Tick(frames int) (finished bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing || frames <= 0 || c.program == nil {
		return false
	}
	total := c.program.TotalSteps(c.geometry.StepsPerPhase)
	c.step += frames
	if c.step >= total {
		c.step = total
		c.playing = false
		return true
	}
	return false
}

// Frame evaluates the sequencer at the current clock.
func (c *Controller) Frame() hanoi.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return hanoi.Advance(c.programLocked(), c.step, c.geometry)
}

// Status reports counters and the last error for display.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.programLocked()
	f := hanoi.Advance(p, c.step, c.geometry)
	st := Status{
		Step:        c.step,
		TotalSteps:  p.TotalSteps(c.geometry.StepsPerPhase),
		CurrentMove: f.MoveIndex,
		TotalMoves:  p.Len(),
		DiskCount:   c.diskCount,
		Playing:     c.playing,
		Complete:    c.program != nil && f.Complete,
		Solved:      c.program != nil && p.Solved(),
	}
	if c.lastErr != nil {
		st.HasError = true
		st.Error = c.lastErr.Error()
	}
	return st
}

// Program returns the current program and its compile revision, or nil.
func (c *Controller) Program() (*hanoi.Program, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.program, c.revision
}

// ClaimSolve hands out the current program once per compile when its
// playback has finished and it leaves every disk on peg C.
func (c *Controller) ClaimSolve() (*hanoi.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.completeLocked() || !c.program.Solved() || c.claimed == c.revision {
		return nil, false
	}
	c.claimed = c.revision
	return c.program, true
}

// Geometry returns the animation geometry in use.
func (c *Controller) Geometry() hanoi.Geometry { return c.geometry }

func (c *Controller) programLocked() *hanoi.Program {
	if c.program == nil {
		return hanoi.Initial(c.diskCount)
	}
	return c.program
}

func (c *Controller) completeLocked() bool {
	return c.program != nil && c.step >= c.program.TotalSteps(c.geometry.StepsPerPhase)
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
