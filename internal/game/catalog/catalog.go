// Package catalog holds the static table of star systems the generator draws
// from. The table ships embedded as YAML and is read-only once loaded.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/ti4-board-generator/internal/game/core"
)

//go:embed systems.yaml
var systemsYAML []byte

type planetDoc struct {
	Name      string `yaml:"name"`
	Resources int    `yaml:"resources"`
	Influence int    `yaml:"influence"`
	Trait     string `yaml:"trait"`
	Specialty string `yaml:"specialty"`
	Legendary bool   `yaml:"legendary"`
}

type systemDoc struct {
	ID        string      `yaml:"id"`
	Version   string      `yaml:"version"`
	Category  string      `yaml:"category"`
	Planets   []planetDoc `yaml:"planets"`
	Anomalies []string    `yaml:"anomalies"`
	Wormholes []string    `yaml:"wormholes"`
}

type catalogDoc struct {
	Systems []systemDoc `yaml:"systems"`
}

// Catalog is the set of known systems keyed by ID.
type Catalog struct {
	systems []*System
	byID    map[string]*System
}

// Load parses the embedded system table.
func Load() (*Catalog, error) {
	return Parse(systemsYAML)
}

// Parse builds a catalog from a YAML document shaped like systems.yaml.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, core.NewConfigurationError("parse catalog", core.ErrMalformedData, "%v", err)
	}

	c := &Catalog{byID: make(map[string]*System, len(doc.Systems))}
	for _, sd := range doc.Systems {
		sys, err := sd.toSystem()
		if err != nil {
			return nil, core.NewConfigurationError("parse catalog", core.ErrMalformedData, "system %s: %v", sd.ID, err)
		}
		if _, dup := c.byID[sys.ID]; dup {
			return nil, core.NewConfigurationError("parse catalog", core.ErrMalformedData, "duplicate system %s", sys.ID)
		}
		c.byID[sys.ID] = sys
		c.systems = append(c.systems, sys)
	}

	sort.Slice(c.systems, func(i, j int) bool { return LessID(c.systems[i].ID, c.systems[j].ID) })
	return c, nil
}

func (sd systemDoc) toSystem() (*System, error) {
	if sd.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	version, err := ParseVersion(sd.Version)
	if err != nil {
		return nil, err
	}
	category, err := core.ParseCategory(sd.Category)
	if err != nil {
		return nil, err
	}
	if len(sd.Planets) > 3 {
		return nil, fmt.Errorf("%d planets, at most 3 allowed", len(sd.Planets))
	}

	planets := make([]Planet, 0, len(sd.Planets))
	for _, pd := range sd.Planets {
		trait, err := parseTrait(pd.Trait)
		if err != nil {
			return nil, err
		}
		specialty, err := parseSpecialty(pd.Specialty)
		if err != nil {
			return nil, err
		}
		planets = append(planets, Planet{
			Name:      pd.Name,
			Resources: pd.Resources,
			Influence: pd.Influence,
			Trait:     trait,
			Specialty: specialty,
			Legendary: pd.Legendary,
		})
	}

	anomalies := make([]Anomaly, 0, len(sd.Anomalies))
	for _, name := range sd.Anomalies {
		a, ok := lookupName(anomalyNames, name)
		if !ok {
			return nil, fmt.Errorf("unknown anomaly %q", name)
		}
		anomalies = append(anomalies, a)
	}

	wormholes := make([]Wormhole, 0, len(sd.Wormholes))
	for _, name := range sd.Wormholes {
		w, ok := lookupName(wormholeNames, name)
		if !ok {
			return nil, fmt.Errorf("unknown wormhole %q", name)
		}
		wormholes = append(wormholes, w)
	}

	return NewSystem(sd.ID, version, category, planets, anomalies, wormholes), nil
}

func lookupName[K comparable](names map[K]string, s string) (K, bool) {
	for k, name := range names {
		if name == strings.ToLower(s) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// BaseID strips a hyperlane orientation suffix: "85A-2" becomes "85A".
func BaseID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// LessID orders system IDs numerically, then by any letter suffix.
func LessID(a, b string) bool {
	na, sa := splitID(a)
	nb, sb := splitID(b)
	if na != nb {
		return na < nb
	}
	return sa < sb
}

func splitID(id string) (int, string) {
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	n, err := strconv.Atoi(id[:i])
	if err != nil {
		return -1, id
	}
	return n, id[i:]
}

// Lookup returns the system with the given ID. Orientation suffixes are ignored.
func (c *Catalog) Lookup(id string) (*System, error) {
	sys, ok := c.byID[BaseID(id)]
	if !ok {
		return nil, core.NewConfigurationError("lookup system", core.ErrUnknownSystem, "%q", id)
	}
	return sys, nil
}

// Systems returns every system ordered by ID.
func (c *Catalog) Systems() []*System {
	out := make([]*System, len(c.systems))
	copy(out, c.systems)
	return out
}

// Len returns the number of systems.
func (c *Catalog) Len() int { return len(c.systems) }

// Filter returns the systems of a category usable with version, ordered by ID.
func (c *Catalog) Filter(version Version, category core.Category) []*System {
	var out []*System
	for _, s := range c.systems {
		if s.Category == category && version.Includes(s.Version) {
			out = append(out, s)
		}
	}
	return out
}
