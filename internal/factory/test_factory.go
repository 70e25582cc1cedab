package factory

import (
	"github.com/rz1986/gameportal/internal/dependencies/clock"
	"github.com/rz1986/gameportal/internal/dependencies/random"
	"github.com/rz1986/gameportal/internal/services/auth"
	"github.com/rz1986/gameportal/internal/storage/memory"
	"github.com/rz1986/gameportal/internal/testutil"
)

// NewForTesting creates an App on in-memory stores with injectable clock and
// random, so tests can control time and verification codes.
func NewForTesting(clk clock.Clock, rnd random.Random) *App {
	return newWithDependencies(
		memory.New(),
		memory.NewSessionStore(),
		clk,
		rnd,
		auth.DefaultConfig(),
		testutil.NopLogger(),
	)
}
