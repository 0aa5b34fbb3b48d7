package catalog

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

// Version tags which box a system ships in.
type Version int

const (
	VersionBase Version = iota
	VersionPoK
)

func (v Version) String() string {
	if v == VersionPoK {
		return "pok"
	}
	return "base"
}

// ParseVersion accepts "base", "pok" and "expansion".
func ParseVersion(s string) (Version, error) {
	switch strings.ToLower(s) {
	case "base":
		return VersionBase, nil
	case "pok", "expansion":
		return VersionPoK, nil
	}
	return VersionBase, fmt.Errorf("unknown game version %q", s)
}

// Includes reports whether a game played with v may use a system tagged other.
func (v Version) Includes(other Version) bool {
	return other <= v
}

// Anomaly is a kind of anomaly a system can contain.
type Anomaly int

const (
	AsteroidField Anomaly = iota
	GravityRift
	Nebula
	Supernova
)

var anomalyNames = map[Anomaly]string{
	AsteroidField: "asteroid_field",
	GravityRift:   "gravity_rift",
	Nebula:        "nebula",
	Supernova:     "supernova",
}

func (a Anomaly) String() string { return anomalyNames[a] }

// Base anomaly scores. All are penalties.
var anomalyScores = map[Anomaly]float64{
	AsteroidField: -1.0,
	GravityRift:   -1.0,
	Nebula:        -0.5,
	Supernova:     -1.5,
}

// AnomalyScore returns the base score of an anomaly kind.
func AnomalyScore(a Anomaly) float64 { return anomalyScores[a] }

// Wormhole is a kind of wormhole a system can contain.
type Wormhole int

const (
	Alpha Wormhole = iota
	Beta
	Gamma
	Delta
)

var wormholeNames = map[Wormhole]string{
	Alpha: "alpha",
	Beta:  "beta",
	Gamma: "gamma",
	Delta: "delta",
}

func (w Wormhole) String() string { return wormholeNames[w] }

// WormholeBonus is the score a wormhole adds to its system.
const WormholeBonus = 1.0

// planetCountBonus rewards systems by number of planets.
var planetCountBonus = [...]float64{0, 0, 0.5, 1.0}

// System is an immutable catalog entry. Use NewSystem so derived values are
// computed once.
type System struct {
	ID        string
	Version   Version
	Category  core.Category
	Planets   []Planet
	Anomalies []Anomaly
	Wormholes []Wormhole

	anomalyMask  uint8
	wormholeMask uint8
	score        float64
	expansion    float64
	resources    float64
	influence    float64
	specialties  int
	traits       [4]int
}

// NewSystem builds a system and caches its derived scores.
func NewSystem(id string, version Version, category core.Category, planets []Planet, anomalies []Anomaly, wormholes []Wormhole) *System {
	s := &System{
		ID:        id,
		Version:   version,
		Category:  category,
		Planets:   planets,
		Anomalies: anomalies,
		Wormholes: wormholes,
	}

	for _, a := range anomalies {
		s.anomalyMask |= 1 << uint(a)
		s.score += anomalyScores[a]
	}
	for _, w := range wormholes {
		s.wormholeMask |= 1 << uint(w)
		s.score += WormholeBonus
	}
	for _, p := range planets {
		s.score += p.Score()
		s.resources += p.UsefulResources()
		s.influence += p.UsefulInfluence()
		if p.Specialty != SpecialtyNone {
			s.specialties++
		}
		s.traits[p.Trait]++
		s.expansion = max(s.expansion, float64(p.Resources))
	}
	if n := len(planets); n < len(planetCountBonus) {
		s.score += planetCountBonus[n]
	} else {
		s.score += planetCountBonus[len(planetCountBonus)-1]
	}
	return s
}

// Score combines planet scores, anomaly and wormhole adjustments and the
// planet-count bonus.
func (s *System) Score() float64 { return s.score }

// ExpansionScore rates how good a first expansion target the system is: the
// resource value of its best planet.
func (s *System) ExpansionScore() float64 { return s.expansion }

func (s *System) UsefulResources() float64 { return s.resources }
func (s *System) UsefulInfluence() float64 { return s.influence }
func (s *System) Specialties() int         { return s.specialties }
func (s *System) PlanetCount() int         { return len(s.Planets) }
func (s *System) HasPlanets() bool         { return len(s.Planets) > 0 }
func (s *System) HasAnomaly() bool         { return s.anomalyMask != 0 }

// TraitCount returns how many planets carry trait t.
func (s *System) TraitCount(t Trait) int { return s.traits[t] }

// HasAnomalyKind reports whether the system contains anomaly a.
func (s *System) HasAnomalyKind(a Anomaly) bool { return s.anomalyMask&(1<<uint(a)) != 0 }

// HasWormhole reports whether the system contains wormhole w.
func (s *System) HasWormhole(w Wormhole) bool { return s.wormholeMask&(1<<uint(w)) != 0 }

// WormholeCount returns the number of wormholes in the system.
func (s *System) WormholeCount() int { return len(s.Wormholes) }

func (s *System) String() string {
	names := make([]string, len(s.Planets))
	for i, p := range s.Planets {
		names[i] = p.Name
	}
	var extras []string
	for _, a := range s.Anomalies {
		extras = append(extras, a.String())
	}
	for _, w := range s.Wormholes {
		extras = append(extras, w.String())
	}
	desc := strings.Join(names, ", ")
	if len(extras) > 0 {
		if desc != "" {
			desc += " "
		}
		desc += "[" + strings.Join(extras, ", ") + "]"
	}
	if desc == "" {
		desc = "empty"
	}
	return fmt.Sprintf("%s: %s", s.ID, desc)
}
