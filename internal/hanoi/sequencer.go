// internal/hanoi/sequencer.go
//
// Animation sequencer: a pure function from (Program, clock step) to the
// placement of every disk. Each move plays as three equal phases:
//
//	lift      source peg, rest height -> hover height
//	translate hover height, source x  -> destination x
//	lower     destination peg, hover height -> rest height
//
// The last step of every move lands the disk exactly on its resting slot.
package hanoi

import (
	"errors"
	"fmt"
)

const phasesPerMove = 3

// Phase names the sub-stage of the move in progress.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLift      Phase = "lift"
	PhaseTranslate Phase = "translate"
	PhaseLower     Phase = "lower"
)

// Geometry holds the animation timing and scene dimensions.
type Geometry struct {
	StepsPerPhase int     `json:"stepsPerPhase"`
	HoverHeight   float64 `json:"hoverHeight"`
	PegSpacing    float64 `json:"pegSpacing"`
	DiskThickness float64 `json:"diskThickness"`
	HalfPegHeight float64 `json:"halfPegHeight"`
}

// DefaultGeometry returns the reference scene: 60 steps per phase, pegs
// 3.2 apart, 0.2-thick disks, hover at 1.8.
func DefaultGeometry() Geometry {
	return Geometry{
		StepsPerPhase: 60,
		HoverHeight:   1.8,
		PegSpacing:    3.2,
		DiskThickness: 0.2,
		HalfPegHeight: 1.5,
	}
}

// Validate rejects geometry the sequencer cannot animate.
func (g Geometry) Validate() error {
	if g.StepsPerPhase < 1 {
		return fmt.Errorf("steps per phase must be >= 1, got %d", g.StepsPerPhase)
	}
	if g.DiskThickness <= 0 {
		return errors.New("disk thickness must be positive")
	}
	if g.PegSpacing <= 0 {
		return errors.New("peg spacing must be positive")
	}
	return nil
}

// StepsPerMove is the clock length of one move.
func (g Geometry) StepsPerMove() int { return phasesPerMove * g.steps() }

func (g Geometry) steps() int {
	if g.StepsPerPhase < 1 {
		return 1
	}
	return g.StepsPerPhase
}

// Rest is the placement of a disk sitting at stack height h (0 = bottom) on peg p.
func (g Geometry) Rest(p Peg, h int) Placement {
	return Placement{
		X: g.PegSpacing * float64(int(p)-1),
		Y: -g.HalfPegHeight + g.DiskThickness*(float64(h)+0.5),
	}
}

// Placement is a disk's horizontal and vertical offset in scene units.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the sequencer output for one clock step.
type Frame struct {
	Step       int            `json:"step"`
	MoveIndex  int            `json:"moveIndex"` // 1-indexed move in progress, capped at TotalMoves
	TotalMoves int            `json:"totalMoves"`
	Complete   bool           `json:"complete"`
	Phase      Phase          `json:"phase"`
	MovingDisk int            `json:"movingDisk"` // -1 when nothing moves
	Placements []Placement    `json:"placements"` // indexed by disk rank
	Pegs       [NumPegs][]int `json:"pegs"`       // settled stacks at the start of the move in progress
}

// slot is a settled disk position.
type slot struct {
	peg    Peg
	height int
}

// Advance evaluates program p at clock step. Steps past the end of the
// program yield the final resting frame. A nil program is treated as empty.
func Advance(p *Program, step int, g Geometry) Frame {
	if p == nil {
		p = Initial(0)
	}
	if step < 0 {
		step = 0
	}
	perMove := g.StepsPerMove()
	idx := step / perMove
	total := len(p.Moves)

	slots := make([]slot, p.DiskCount)
	for r := range slots {
		slots[r] = slot{peg: PegA, height: p.DiskCount - 1 - r}
	}
	done := idx
	if done > total {
		done = total
	}
	for _, m := range p.Moves[:done] {
		slots[m.Disk] = slot{peg: m.To, height: m.ToHeight}
	}

	f := Frame{
		Step:       step,
		TotalMoves: total,
		Phase:      PhaseIdle,
		MovingDisk: -1,
		Placements: make([]Placement, p.DiskCount),
		Pegs:       stacksFromSlots(slots),
	}
	for r, s := range slots {
		f.Placements[r] = g.Rest(s.peg, s.height)
	}

	if idx >= total {
		f.Complete = true
		f.MoveIndex = total
		return f
	}
	f.MoveIndex = idx + 1

	m := p.Moves[idx]
	phase, local := phaseAt(step-idx*perMove, g.steps())
	f.Phase = phase
	f.MovingDisk = m.Disk
	f.Placements[m.Disk] = g.interpolate(m, phase, local)
	return f
}

func phaseAt(offset, steps int) (Phase, int) {
	switch offset / steps {
	case 0:
		return PhaseLift, offset % steps
	case 1:
		return PhaseTranslate, offset % steps
	default:
		return PhaseLower, offset % steps
	}
}

// interpolate positions the moving disk. Lift and translate use t = local/steps
// so each phase starts exactly on its origin; lower uses (local+1)/steps so the
// final step lands exactly on the destination slot.
func (g Geometry) interpolate(m Move, phase Phase, local int) Placement {
	steps := float64(g.steps())
	from := g.Rest(m.From, m.FromHeight)
	to := g.Rest(m.To, m.ToHeight)

	switch phase {
	case PhaseLift:
		t := float64(local) / steps
		return Placement{X: from.X, Y: lerp(from.Y, g.HoverHeight, t)}
	case PhaseTranslate:
		t := float64(local) / steps
		return Placement{X: lerp(from.X, to.X, t), Y: g.HoverHeight}
	default:
		t := float64(local+1) / steps
		return Placement{X: to.X, Y: lerp(g.HoverHeight, to.Y, t)}
	}
}

// lerp is exact at both t=0 and t=1.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func stacksFromSlots(slots []slot) [NumPegs][]int {
	var counts [NumPegs]int
	for _, s := range slots {
		counts[s.peg]++
	}
	var pegs [NumPegs][]int
	for i := range pegs {
		pegs[i] = make([]int, counts[i])
	}
	for r, s := range slots {
		pegs[s.peg][s.height] = r
	}
	return pegs
}
