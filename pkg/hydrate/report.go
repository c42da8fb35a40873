package hydrate

import (
	"errors"

	"github.com/vango-dev/rmx/pkg/markers"
)

// Status is the outcome of one region.
type Status string

const (
	StatusMounted Status = "mounted"
	StatusFailed  Status = "failed"
	StatusStale   Status = "stale"
)

// RegionResult is the outcome of hydrating one hydration or frame region.
type RegionResult struct {
	Kind       markers.Kind
	ID         string
	Status     Status
	Err        error
	Mismatches int
}

// Report summarizes a hydration pass.
type Report struct {
	Regions []RegionResult
}

func (r *Report) add(res RegionResult) {
	r.Regions = append(r.Regions, res)
}

// Count returns the number of regions with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Regions {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Mismatches returns the total hydration mismatches over all regions.
func (r *Report) Mismatches() int {
	n := 0
	for _, res := range r.Regions {
		n += res.Mismatches
	}
	return n
}

// Err joins the errors of every failed or stale region.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Regions {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
