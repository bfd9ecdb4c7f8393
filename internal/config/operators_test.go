package config_test

import (
	"testing"

	"github.com/angelobarone/minilang-compiler/internal/config"
	"github.com/angelobarone/minilang-compiler/internal/token"
)

func TestPrecedenceOrdering(t *testing.T) {
	// Multiplicative must bind tighter than additive, additive tighter
	// than relational, relational tighter than equality, equality tighter
	// than logical, logical tighter than assignment, assignment tighter
	// than pipe.
	if !(config.PrecMultiplicative > config.PrecAdditive &&
		config.PrecAdditive > config.PrecRelational &&
		config.PrecRelational > config.PrecEquality &&
		config.PrecEquality > config.PrecLogical &&
		config.PrecLogical > config.PrecAssign &&
		config.PrecAssign > config.PrecPipe) {
		t.Fatalf("precedence tiers out of order")
	}
}

func TestGetOperatorUnknownToken(t *testing.T) {
	if _, ok := config.GetOperator(token.LPAREN); ok {
		t.Fatalf("LPAREN should not be a registered operator")
	}
}

func TestGetOperatorKnownToken(t *testing.T) {
	info, ok := config.GetOperator(token.MUL)
	if !ok {
		t.Fatalf("expected MUL to be a registered operator")
	}
	if info.Precedence != config.PrecMultiplicative {
		t.Fatalf("got precedence %d, want %d", info.Precedence, config.PrecMultiplicative)
	}
	if info.Assoc != config.AssocLeft {
		t.Fatalf("MUL should be left-associative")
	}
}

func TestPrecedenceOfPipeIsLowest(t *testing.T) {
	if config.PrecedenceOf(token.PIPE) >= config.PrecedenceOf(token.PLUS) {
		t.Fatalf("pipe should bind looser than additive operators")
	}
}
