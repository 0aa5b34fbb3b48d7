package mapgen

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/catalog"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/layout"
)

// Aggression biases where strong systems land: high aggression puts them on
// contested equidistant tiles, low aggression keeps them inside slices.
type Aggression int

const (
	AggressionVeryLow Aggression = iota
	AggressionLow
	AggressionMedium
	AggressionHigh
	AggressionVeryHigh
)

var aggressionNames = [...]string{"very-low", "low", "medium", "high", "very-high"}

func (a Aggression) String() string {
	if a < AggressionVeryLow || a > AggressionVeryHigh {
		return fmt.Sprintf("aggression(%d)", int(a))
	}
	return aggressionNames[a]
}

// ParseAggression accepts the names printed by String; underscores work in
// place of hyphens.
func ParseAggression(s string) (Aggression, error) {
	norm := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	for i, name := range aggressionNames {
		if name == norm {
			return Aggression(i), nil
		}
	}
	return AggressionMedium, fmt.Errorf("unknown aggression %q", s)
}

// Options controls one generation run.
type Options struct {
	Players    int
	Version    catalog.Version
	Aggression Aggression

	// IterationsPerAttempt bounds the inner loop of each attempt.
	IterationsPerAttempt int
	MaxAttempts          int
	// Attempt k accepts imbalance up to InitialTolerance * ToleranceGrowth^k.
	InitialTolerance float64
	ToleranceGrowth  float64

	// Workers > 1 splits each attempt's iterations across goroutines.
	Workers int
}

// DefaultOptions returns the CLI defaults for a player count.
func DefaultOptions(players int) Options {
	return Options{
		Players:              players,
		Version:              catalog.VersionPoK,
		Aggression:           AggressionMedium,
		IterationsPerAttempt: 100_000,
		MaxAttempts:          20,
		InitialTolerance:     0.02,
		ToleranceGrowth:      1.15,
		Workers:              1,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	switch {
	case o.Players < 2 || o.Players > core.MaxPlayers:
		return fmt.Errorf("players must be between 2 and %d, got %d", core.MaxPlayers, o.Players)
	case o.Aggression < AggressionVeryLow || o.Aggression > AggressionVeryHigh:
		return fmt.Errorf("invalid aggression %d", int(o.Aggression))
	case o.IterationsPerAttempt <= 0:
		return fmt.Errorf("iterations per attempt must be positive, got %d", o.IterationsPerAttempt)
	case o.MaxAttempts <= 0:
		return fmt.Errorf("max attempts must be positive, got %d", o.MaxAttempts)
	case o.InitialTolerance <= 0:
		return fmt.Errorf("initial tolerance must be positive, got %g", o.InitialTolerance)
	case o.ToleranceGrowth < 1:
		return fmt.Errorf("tolerance growth must be at least 1, got %g", o.ToleranceGrowth)
	case o.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", o.Workers)
	}
	return nil
}

// ResolveVersion returns the version a layout can actually be built with.
// Seven or more players, or a layout that needs expansion systems, force the
// expansion; forced reports whether that happened.
func ResolveVersion(requested catalog.Version, l *layout.Layout) (version catalog.Version, forced bool) {
	if requested == catalog.VersionBase && (l.Players >= 7 || l.RequiresExpansion) {
		return catalog.VersionPoK, true
	}
	return requested, false
}
