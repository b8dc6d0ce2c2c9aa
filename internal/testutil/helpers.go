package testutil

import "github.com/rs/zerolog"

// SequenceRand replays a fixed sequence of choices, each reduced modulo n.
// Once exhausted it keeps returning 0.
type SequenceRand struct {
	seq []int
	pos int
}

// NewSequenceRand creates a deterministic random source for tests
func NewSequenceRand(seq ...int) *SequenceRand {
	return &SequenceRand{seq: seq}
}

func (s *SequenceRand) Intn(n int) int {
	if s.pos >= len(s.seq) {
		return 0
	}
	v := s.seq[s.pos] % n
	s.pos++
	return v
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}
