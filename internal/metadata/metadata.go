// Package metadata loads jurisdiction metadata: chambers, districts and seat
// counts per state, and the jurisdiction id of each state.
package metadata

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dyluth/peoplelint/pkg/schema"
)

// ErrNotFound is returned when a lookup matches no jurisdiction.
var ErrNotFound = errors.New("jurisdiction not found")

// District is a single seat area within a chamber.
type District struct {
	Name     string `yaml:"name" validate:"required"`
	NumSeats int    `yaml:"num_seats" validate:"min=0"`
}

// Chamber is a legislative body of a state.
type Chamber struct {
	ChamberType string     `yaml:"chamber_type" validate:"required,oneof=upper lower unicameral"`
	Districts   []District `yaml:"districts" validate:"required,dive"`
}

// State is a state, district or territory.
type State struct {
	Abbr           string    `yaml:"abbr" validate:"required,lowercase"`
	Name           string    `yaml:"name" validate:"required"`
	JurisdictionID string    `yaml:"jurisdiction_id" validate:"required"`
	Chambers       []Chamber `yaml:"chambers" validate:"dive"`
}

// ExpectedSeats returns chamber type -> district -> seat count. Unicameral
// chambers are keyed "legislature", matching person role types.
func (s *State) ExpectedSeats() map[string]map[string]int {
	expected := make(map[string]map[string]int, len(s.Chambers))
	for _, ch := range s.Chambers {
		chamberType := ch.ChamberType
		if chamberType == "unicameral" {
			chamberType = "legislature"
		}
		districts := make(map[string]int, len(ch.Districts))
		for _, d := range ch.Districts {
			districts[d.Name] = d.NumSeats
		}
		expected[chamberType] = districts
	}
	return expected
}

// Catalog indexes states by abbreviation and jurisdiction id. It is read-only
// after construction and safe for concurrent use.
type Catalog struct {
	byAbbr map[string]*State
	byJID  map[string]*State
}

type file struct {
	Jurisdictions []State `yaml:"jurisdictions" validate:"dive"`
}

var validate = validator.New()

// New builds a catalog, validating every state.
func New(states []State) (*Catalog, error) {
	c := &Catalog{
		byAbbr: make(map[string]*State, len(states)),
		byJID:  make(map[string]*State, len(states)),
	}
	for i := range states {
		s := &states[i]
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("invalid jurisdiction %q: %w", s.Abbr, err)
		}
		if !schema.IsJurisdictionID(s.JurisdictionID) {
			return nil, fmt.Errorf("invalid jurisdiction %q: malformed id %s", s.Abbr, s.JurisdictionID)
		}
		if _, dup := c.byAbbr[s.Abbr]; dup {
			return nil, fmt.Errorf("duplicate jurisdiction %q", s.Abbr)
		}
		c.byAbbr[s.Abbr] = s
		c.byJID[s.JurisdictionID] = s
	}
	return c, nil
}

// Load reads a jurisdictions.yml metadata file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return New(f.Jurisdictions)
}

// Lookup finds a state by abbreviation.
func (c *Catalog) Lookup(abbr string) (*State, error) {
	if s, ok := c.byAbbr[abbr]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: abbr %s", ErrNotFound, abbr)
}

// LookupJurisdiction finds a state by jurisdiction id.
func (c *Catalog) LookupJurisdiction(id string) (*State, error) {
	if s, ok := c.byJID[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// HasJurisdiction reports whether id names a known state jurisdiction.
func (c *Catalog) HasJurisdiction(id string) bool {
	_, ok := c.byJID[id]
	return ok
}

// Abbreviations returns all known abbreviations, sorted.
func (c *Catalog) Abbreviations() []string {
	out := make([]string, 0, len(c.byAbbr))
	for abbr := range c.byAbbr {
		out = append(out, abbr)
	}
	sort.Strings(out)
	return out
}
