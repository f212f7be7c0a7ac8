package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultMajorParties is applied when settings.yml does not list major parties.
var DefaultMajorParties = []string{"Democratic", "Republican", "Independent"}

// Settings represents the top-level settings.yml configuration
type Settings struct {
	Parties       []string                        `yaml:"parties" validate:"required,min=1,dive,required"`
	MajorParties  []string                        `yaml:"major_parties,omitempty" validate:"dive,required"`
	HTTPWhitelist []string                        `yaml:"http_whitelist,omitempty" validate:"dive,startswith=http://"`
	CheckHTTPS    bool                            `yaml:"check_https,omitempty"` // Warn on plain http URLs (off by default)
	Jurisdictions map[string]JurisdictionSettings `yaml:"jurisdictions,omitempty" validate:"dive,keys,required,lowercase,endkeys"`
}

// JurisdictionSettings holds per-abbreviation overrides
type JurisdictionSettings struct {
	Vacancies       []Vacancy           `yaml:"vacancies,omitempty" validate:"dive"`
	LegacyDistricts map[string][]string `yaml:"legacy_districts,omitempty"` // chamber type -> retired district names
}

// Vacancy declares a seat that is expected to be empty until VacantUntil
type Vacancy struct {
	Chamber     string    `yaml:"chamber" validate:"required,oneof=upper lower legislature"`
	District    string    `yaml:"district" validate:"required"`
	VacantUntil time.Time `yaml:"vacant_until" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate performs strict validation on the settings and applies defaults
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", describe(err))
	}

	// Major parties must be a subset of the valid parties
	if len(s.MajorParties) == 0 {
		s.MajorParties = append([]string(nil), DefaultMajorParties...)
	} else {
		valid := make(map[string]bool, len(s.Parties))
		for _, p := range s.Parties {
			valid[p] = true
		}
		for _, p := range s.MajorParties {
			if !valid[p] {
				return fmt.Errorf("major party '%s' is not listed in parties", p)
			}
		}
	}

	return nil
}

// For returns the settings for one abbreviation (zero value if none configured)
func (s *Settings) For(abbr string) JurisdictionSettings {
	return s.Jurisdictions[abbr]
}

// Load reads and validates settings.yml from the specified path
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// describe flattens validator errors into one readable message
func describe(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
