package core

import "fmt"

// CommandType is the closed set of commands a player may issue
type CommandType int

const (
	CmdPass CommandType = iota
	CmdResearch
	CmdBuy
	CmdSell
	CmdMoveTo
)

func (t CommandType) String() string {
	switch t {
	case CmdPass:
		return "PASS"
	case CmdResearch:
		return "RESEARCH"
	case CmdBuy:
		return "BUY"
	case CmdSell:
		return "SELL"
	case CmdMoveTo:
		return "MOVE_TO"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// Command is one turn's output. Node is set for MOVE_TO, Product and Amount
// for BUY and SELL.
type Command struct {
	Type    CommandType
	Node    string
	Product string
	Amount  int
}

// Pass builds a PASS command
func Pass() Command {
	return Command{Type: CmdPass}
}

// Research builds a RESEARCH command
func Research() Command {
	return Command{Type: CmdResearch}
}

// MoveTo builds a MOVE_TO command for an adjacent node
func MoveTo(node string) Command {
	return Command{Type: CmdMoveTo, Node: node}
}

// Buy builds a BUY command
func Buy(product string, amount int) Command {
	return Command{Type: CmdBuy, Product: product, Amount: amount}
}

// Sell builds a SELL command
func Sell(product string, amount int) Command {
	return Command{Type: CmdSell, Product: product, Amount: amount}
}

// IsTrade reports whether the command changes inventory and gold
func (c Command) IsTrade() bool {
	return c.Type == CmdBuy || c.Type == CmdSell
}

func (c Command) String() string {
	switch c.Type {
	case CmdMoveTo:
		return fmt.Sprintf("%s %s", c.Type, c.Node)
	case CmdBuy, CmdSell:
		return fmt.Sprintf("%s %d %s", c.Type, c.Amount, c.Product)
	default:
		return c.Type.String()
	}
}

// Validate checks the command's payload against the map and the player's
// current location.
func (c Command) Validate(m MarketMap, location string) error {
	switch c.Type {
	case CmdPass, CmdResearch:
		return nil
	case CmdMoveTo:
		if !Contains(m, c.Node) {
			return WrapNodeError(c.Node, ErrUnknownNode)
		}
		if !AreNeighbours(m, location, c.Node) {
			return fmt.Errorf("%s -> %s: %w", location, c.Node, ErrNotAdjacent)
		}
		return nil
	case CmdBuy, CmdSell:
		if c.Product == "" {
			return fmt.Errorf("%w: empty product", ErrInvalidCommand)
		}
		if c.Amount <= 0 {
			return ErrInvalidAmount
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidCommand, c.Type)
	}
}
