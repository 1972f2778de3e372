// internal/hanoi/compiler.go
//
// Move compiler: turns user move notation into a validated Program.
//
// Processing runs in two passes:
//   1. Parse every non-empty line against "<src>[, ]<dst>". All parse
//      failures are collected before reporting.
//   2. Only if parsing was clean, simulate the moves from the starting
//      stack. Simulation stops at the first illegal move.
//
// A failed compile never returns a partial Program.
package hanoi

import (
	"fmt"
	"regexp"
	"strings"
)

var movePattern = regexp.MustCompile(`^([ABC123])[, ]([ABC123])$`)

// instruction is a parsed line before simulation.
type instruction struct {
	line     int
	from, to Peg
}

// Compile parses and simulates commandText against a board of diskCount
// disks. On failure the error is a *CompileError (or wraps ErrDiskCount).
func Compile(commandText string, diskCount int) (*Program, error) {
	if diskCount < 0 {
		return nil, fmt.Errorf("%w: %d", ErrDiskCount, diskCount)
	}
	ins, err := parseCommands(commandText)
	if err != nil {
		return nil, err
	}
	return simulate(ins, diskCount)
}

// parseCommands numbers lines by their position among non-empty lines.
func parseCommands(text string) ([]instruction, error) {
	var (
		out  []instruction
		bad  []int
		line int
	)
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line++
		m := movePattern.FindStringSubmatch(raw)
		if m == nil {
			bad = append(bad, line)
			continue
		}
		from, _ := pegFromAlias(m[1][0])
		to, _ := pegFromAlias(m[2][0])
		out = append(out, instruction{line: line, from: from, to: to})
	}
	if len(bad) > 0 {
		return nil, &CompileError{Kind: ErrParse, Line: bad[0], Lines: bad}
	}
	return out, nil
}

func simulate(ins []instruction, diskCount int) (*Program, error) {
	pegs := startingPegs(diskCount)
	moves := make([]Move, 0, len(ins))

	for _, in := range ins {
		src := pegs[in.from]
		if len(src) == 0 {
			return nil, &CompileError{Kind: ErrEmptySource, Line: in.line, Peg: in.from}
		}
		disk := src[len(src)-1]
		pegs[in.from] = src[:len(src)-1]

		// Compared against the new top, so from == to checks the disk beneath.
		dst := pegs[in.to]
		if n := len(dst); n > 0 && dst[n-1] < disk {
			return nil, &CompileError{Kind: ErrSizeViolation, Line: in.line, Peg: in.to, Disk: disk}
		}

		moves = append(moves, Move{
			Disk:       disk,
			From:       in.from,
			To:         in.to,
			FromHeight: len(pegs[in.from]),
			ToHeight:   len(dst),
		})
		pegs[in.to] = append(dst, disk)
	}

	p := &Program{DiskCount: diskCount, Moves: moves}
	for i := range pegs {
		p.Final[i] = append([]int{}, pegs[i]...)
	}
	return p, nil
}
