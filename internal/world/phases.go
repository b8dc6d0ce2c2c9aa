package world

import "fmt"

// GamePhase represents the current phase of a local game
type GamePhase int

const (
	// PhaseSetup - World loaded, no turn played yet
	PhaseSetup GamePhase = iota

	// PhaseRunning - Turns are being played
	PhaseRunning

	// PhaseEnded - Final state
	PhaseEnded
)

// String returns the string representation of a GamePhase
func (p GamePhase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveCommands returns true if the game can apply player commands in this phase
func (p GamePhase) CanReceiveCommands() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseSetup:
		return []GamePhase{PhaseRunning, PhaseEnded}
	case PhaseRunning:
		return []GamePhase{PhaseEnded}
	default:
		return []GamePhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
