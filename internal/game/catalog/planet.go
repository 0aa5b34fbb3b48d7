package catalog

import (
	"fmt"
	"strings"
)

// Trait is a planet trait card type.
type Trait int

const (
	TraitNone Trait = iota
	TraitCultural
	TraitHazardous
	TraitIndustrial
)

// Traits lists the real traits in a stable order.
var Traits = []Trait{TraitCultural, TraitHazardous, TraitIndustrial}

var traitNames = map[Trait]string{
	TraitNone:       "",
	TraitCultural:   "cultural",
	TraitHazardous:  "hazardous",
	TraitIndustrial: "industrial",
}

func (t Trait) String() string { return traitNames[t] }

// Specialty is a technology specialty printed on a planet.
type Specialty int

const (
	SpecialtyNone Specialty = iota
	SpecialtyBiotic
	SpecialtyCybernetic
	SpecialtyPropulsion
	SpecialtyWarfare
)

var specialtyNames = map[Specialty]string{
	SpecialtyNone:       "",
	SpecialtyBiotic:     "biotic",
	SpecialtyCybernetic: "cybernetic",
	SpecialtyPropulsion: "propulsion",
	SpecialtyWarfare:    "warfare",
}

func (s Specialty) String() string { return specialtyNames[s] }

func parseTrait(s string) (Trait, error) {
	for t, name := range traitNames {
		if name == strings.ToLower(s) {
			return t, nil
		}
	}
	return TraitNone, fmt.Errorf("unknown trait %q", s)
}

func parseSpecialty(s string) (Specialty, error) {
	for sp, name := range specialtyNames {
		if name == strings.ToLower(s) {
			return sp, nil
		}
	}
	return SpecialtyNone, fmt.Errorf("unknown specialty %q", s)
}

// Planet weights used by Planet.Score.
const (
	ResourceWeight  = 1.0
	InfluenceWeight = 0.75
	SpecialtyBonus  = 1.0
	LegendaryBonus  = 2.0
)

// Planet is a single planet inside a system.
type Planet struct {
	Name      string
	Resources int
	Influence int
	Specialty Specialty
	Trait     Trait
	Legendary bool
}

// UsefulResources is the resource value a player would actually spend: a
// planet is exhausted for either resources or influence, so only the larger
// side counts, and a tie splits evenly.
func (p Planet) UsefulResources() float64 {
	switch {
	case p.Resources > p.Influence:
		return float64(p.Resources)
	case p.Resources < p.Influence:
		return 0
	default:
		return float64(p.Resources) / 2
	}
}

// UsefulInfluence mirrors UsefulResources for influence.
func (p Planet) UsefulInfluence() float64 {
	switch {
	case p.Influence > p.Resources:
		return float64(p.Influence)
	case p.Influence < p.Resources:
		return 0
	default:
		return float64(p.Influence) / 2
	}
}

// Score values the planet from its useful resources and influence plus
// specialty and legendary bonuses.
func (p Planet) Score() float64 {
	score := ResourceWeight*p.UsefulResources() + InfluenceWeight*p.UsefulInfluence()
	if p.Specialty != SpecialtyNone {
		score += SpecialtyBonus
	}
	if p.Legendary {
		score += LegendaryBonus
	}
	return score
}
