// Package runner drives lint batches: one batch per jurisdiction
// abbreviation, each with its own validator, run in parallel and merged.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dyluth/peoplelint/internal/config"
	"github.com/dyluth/peoplelint/internal/dataset"
	"github.com/dyluth/peoplelint/internal/lint"
	"github.com/dyluth/peoplelint/internal/metadata"
	"github.com/dyluth/peoplelint/internal/retire"
)

// Options configures a lint run.
type Options struct {
	DataRoot string
	// AsOf evaluates roles on a fixed date (YYYY-MM-DD); empty means today.
	AsOf string
	// Municipal includes municipalities/ records.
	Municipal bool
	// RetireInactive retires people reported with "no active roles".
	RetireInactive bool
	// Jobs bounds the number of concurrent batches; zero means unbounded.
	Jobs int
	// Now is used for vacancy expiry and retirement dates; zero means time.Now.
	Now time.Time
}

// Env is the configuration shared by every batch of a run.
type Env struct {
	Settings *config.Settings
	Catalog  *metadata.Catalog
}

// LoadEnv reads settings and jurisdiction metadata.
func LoadEnv(settingsPath, metadataPath string) (*Env, error) {
	settings, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}
	catalog, err := metadata.Load(metadataPath)
	if err != nil {
		return nil, err
	}
	return &Env{Settings: settings, Catalog: catalog}, nil
}

// Batch is the result of linting one abbreviation.
type Batch struct {
	Abbr   string
	Result *lint.Result
}

// ProcessDir lints every record of one abbreviation. A *lint.BadVacancyError
// is returned before any record is read.
func ProcessDir(ctx context.Context, env *Env, opts Options, abbr string) (*lint.Result, error) {
	state, err := env.Catalog.Lookup(abbr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abbr, err)
	}

	municipalities, err := dataset.LoadMunicipalities(opts.DataRoot, abbr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abbr, err)
	}

	jset := env.Settings.For(abbr)
	vacancies := make([]lint.Vacancy, 0, len(jset.Vacancies))
	for _, v := range jset.Vacancies {
		vacancies = append(vacancies, lint.Vacancy{
			Chamber:     v.Chamber,
			District:    v.District,
			VacantUntil: v.VacantUntil,
		})
	}

	validator, err := lint.NewValidator(lint.Options{
		Seats:           lint.SeatTable(state.ExpectedSeats()),
		Vacancies:       vacancies,
		Parties:         env.Settings.Parties,
		MajorParties:    env.Settings.MajorParties,
		HTTPWhitelist:   env.Settings.HTTPWhitelist,
		CheckHTTPS:      env.Settings.CheckHTTPS,
		LegacyDistricts: jset.LegacyDistricts,
		Jurisdictions:   env.Catalog,
		Municipalities:  dataset.MunicipalityIDs(municipalities),
		AsOf:            opts.AsOf,
		Now:             opts.Now,
	})
	if err != nil {
		return nil, err
	}

	kinds := []dataset.Kind{dataset.KindLegislature, dataset.KindRetired, dataset.KindExecutive}
	if opts.Municipal {
		kinds = append(kinds, dataset.KindMunicipalities)
	}
	kinds = append(kinds, dataset.KindOrganizations)

	files, err := dataset.Discover(opts.DataRoot, abbr, kinds...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abbr, err)
	}
	log.Printf("[Runner] %s: %d files", abbr, len(files))

	var toRetire []dataset.File
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := dataset.LoadRecord(f.Path)
		if err != nil {
			validator.AddError(f.Name, err.Error())
			continue
		}

		if f.Kind == dataset.KindOrganizations {
			validator.ValidateOrganization(record, f.Name)
			continue
		}
		out := validator.ValidatePerson(record, f.Name, personType(f.Kind))
		if opts.RetireInactive && f.Kind != dataset.KindRetired && containsString(out.Errors, lint.ErrNoActiveRoles) {
			toRetire = append(toRetire, f)
		}
	}

	if len(toRetire) > 0 {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		endDate := now.Format(lint.DateLayout)
		for _, f := range toRetire {
			newPath, _, err := retire.File(f.Path, retire.Options{
				EndDate: endDate,
				Reason:  lint.ErrNoActiveRoles,
				AsOf:    opts.AsOf,
			})
			if err != nil {
				validator.AddError(f.Name, err.Error())
				continue
			}
			log.Printf("[Runner] %s: retired %s -> %s", abbr, f.Name, newPath)
			validator.DropError(f.Name, lint.ErrNoActiveRoles)
		}
	}

	return validator.Report(), nil
}

// RunAll lints every abbreviation concurrently, one validator per batch.
// Batches are returned sorted by abbreviation. The first failing batch
// cancels the rest.
func RunAll(ctx context.Context, env *Env, opts Options, abbrs []string) ([]Batch, error) {
	sorted := append([]string(nil), abbrs...)
	sort.Strings(sorted)

	results := make([]*lint.Result, len(sorted))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, abbr := range sorted {
		g.Go(func() error {
			result, err := ProcessDir(ctx, env, opts, abbr)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var bad *lint.BadVacancyError
		if errors.As(err, &bad) {
			log.Printf("[Runner] aborting: bad vacancy %s", bad.Vacancy)
		}
		return nil, err
	}

	batches := make([]Batch, len(sorted))
	for i, abbr := range sorted {
		batches[i] = Batch{Abbr: abbr, Result: results[i]}
	}
	return batches, nil
}

// Merge folds batch results into one, in batch order.
func Merge(batches []Batch) *lint.Result {
	merged := lint.NewResult()
	for _, b := range batches {
		merged.Merge(b.Result)
	}
	return merged
}

func personType(kind dataset.Kind) lint.PersonType {
	switch kind {
	case dataset.KindRetired:
		return lint.Retired
	case dataset.KindExecutive:
		return lint.Executive
	case dataset.KindMunicipalities:
		return lint.Municipal
	}
	return lint.Legislative
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
