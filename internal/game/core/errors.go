package core

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownNode       = errors.New("node not in map")
	ErrUnreachable       = errors.New("target unreachable")
	ErrNoSafeNode        = errors.New("no safe market reachable")
	ErrMapNotSet         = errors.New("map not set")
	ErrNotAdjacent       = errors.New("markets are not adjacent")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientStock = errors.New("insufficient stock at market")
	ErrInsufficientHeld  = errors.New("insufficient amount held")
	ErrInsufficientGold  = errors.New("insufficient gold")
	ErrUnknownProduct    = errors.New("product not traded at market")
	ErrInvalidCommand    = errors.New("invalid command")
	ErrGameOver          = errors.New("game is over")
)

// WrapCommandError adds the issuing player and the command to err.
func WrapCommandError(playerID string, cmd Command, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("player %s: %s: %w", playerID, cmd, err)
}

// WrapTurnError adds the turn number and decision stage to err.
func WrapTurnError(turn int, stage string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("turn %d [%s]: %w", turn, stage, err)
}

// WrapNodeError adds the offending node name to err.
func WrapNodeError(node string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("node %q: %w", node, err)
}
