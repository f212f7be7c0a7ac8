package lint

import "sort"

// Result is the outcome of one or more validation batches.
// A filename only appears in ErrorsByFilename or WarningsByFilename when its
// list is non-empty.
type Result struct {
	Errors             []string            `json:"errors"`
	ErrorsByFilename   map[string][]string `json:"errors_by_filename"`
	WarningsByFilename map[string][]string `json:"warnings_by_filename"`
	Checked            []string            `json:"checked,omitempty"`
}

// NewResult returns an empty result.
func NewResult() *Result {
	return &Result{
		Errors:             []string{},
		ErrorsByFilename:   make(map[string][]string),
		WarningsByFilename: make(map[string][]string),
	}
}

// ErrorCount counts each aggregate error once and each file with errors once.
func (r *Result) ErrorCount() int {
	return len(r.Errors) + len(r.ErrorsByFilename)
}

// Merge appends other into r.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	for fn, msgs := range other.ErrorsByFilename {
		r.ErrorsByFilename[fn] = append(r.ErrorsByFilename[fn], msgs...)
	}
	for fn, msgs := range other.WarningsByFilename {
		r.WarningsByFilename[fn] = append(r.WarningsByFilename[fn], msgs...)
	}
	r.Checked = append(r.Checked, other.Checked...)
}

// Filenames returns every checked filename plus any filename with messages, sorted.
func (r *Result) Filenames() []string {
	set := make(map[string]bool)
	for _, fn := range r.Checked {
		set[fn] = true
	}
	for fn := range r.ErrorsByFilename {
		set[fn] = true
	}
	for fn := range r.WarningsByFilename {
		set[fn] = true
	}
	out := make([]string, 0, len(set))
	for fn := range set {
		out = append(out, fn)
	}
	sort.Strings(out)
	return out
}
