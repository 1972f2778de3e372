// internal/hanoi/types.go
//
// Core type definitions for the towers puzzle.
// Defines:
//   - Peg: one of the three pegs (A/B/C, canonical indices 0..2).
//   - Move: one validated, simulated move with the stack heights the
//     animation needs.
//   - Program: the immutable output of Compile.

package hanoi

// NumPegs is the fixed number of pegs on the board.
const NumPegs = 3

// Peg identifies a peg by canonical index 0..2.
type Peg int

const (
	PegA Peg = iota
	PegB
	PegC
)

// String returns the letter form used in move notation.
func (p Peg) String() string {
	switch p {
	case PegA:
		return "A"
	case PegB:
		return "B"
	case PegC:
		return "C"
	}
	return "?"
}

// MarshalText encodes a peg as its letter so JSON payloads read like the notation.
func (p Peg) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// pegFromAlias resolves "A"/"1", "B"/"2", "C"/"3". Uppercase only.
func pegFromAlias(b byte) (Peg, bool) {
	switch b {
	case 'A', '1':
		return PegA, true
	case 'B', '2':
		return PegB, true
	case 'C', '3':
		return PegC, true
	}
	return 0, false
}

// Move is one compiled move. Disk ranks run 0..N-1, rank 0 being the smallest.
type Move struct {
	Disk       int `json:"disk"`
	From       Peg `json:"from"`
	To         Peg `json:"to"`
	FromHeight int `json:"fromHeight"` // source stack height after the pop
	ToHeight   int `json:"toHeight"`   // destination stack height before the push
}

// Program is an ordered, validated move list. It is never mutated after
// Compile returns it.
type Program struct {
	DiskCount int            `json:"diskCount"`
	Moves     []Move         `json:"moves"`
	Final     [NumPegs][]int `json:"final"` // disk ranks per peg, bottom to top, after the last move
}

// Initial returns an empty program: all disks resting on peg A.
func Initial(diskCount int) *Program {
	if diskCount < 0 {
		diskCount = 0
	}
	return &Program{DiskCount: diskCount, Moves: []Move{}, Final: startingPegs(diskCount)}
}

// Len reports the number of moves.
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Moves)
}

// Solved reports whether every disk ends on peg C.
func (p *Program) Solved() bool {
	return p != nil && len(p.Final[PegC]) == p.DiskCount
}

// Optimal reports a solution that uses the minimum 2^N-1 moves.
func (p *Program) Optimal() bool {
	if !p.Solved() || p.DiskCount >= 63 {
		return false
	}
	return len(p.Moves) == (1<<p.DiskCount)-1
}

// TotalSteps is the clock value at which playback of p completes.
func (p *Program) TotalSteps(stepsPerPhase int) int {
	return p.Len() * phasesPerMove * stepsPerPhase
}

// startingPegs stacks ranks N-1..0 on peg A, largest at the bottom.
func startingPegs(n int) [NumPegs][]int {
	var pegs [NumPegs][]int
	pegs[PegA] = make([]int, 0, n)
	for r := n - 1; r >= 0; r-- {
		pegs[PegA] = append(pegs[PegA], r)
	}
	pegs[PegB] = []int{}
	pegs[PegC] = []int{}
	return pegs
}
