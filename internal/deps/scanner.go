// Package deps inspects a skill's declared requirements against the host
// and satisfies missing binaries through whichever OS package manager is
// available.
package deps

import (
	"os"
	"os/exec"

	"skillpack/internal/registry"
)

// Record is the result of scanning one skill's requirements against the
// host. Computed fresh on every scan, never persisted.
type Record struct {
	Skill           string
	RequiredBins    []string
	RequiredAnyBins []string
	RequiredEnv     []string
	MissingBins     []string
	HasAnyBin       bool
	MissingEnv      []string
}

// Satisfied reports whether the skill's binary requirements are met.
func (r Record) Satisfied() bool {
	return len(r.MissingBins) == 0 && r.HasAnyBin
}

// Scanner inspects declared requirements against the live host. lookPath
// and getenv are swappable for tests.
type Scanner struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// NewScanner creates a scanner backed by the real PATH and environment.
func NewScanner() *Scanner {
	return &Scanner{lookPath: exec.LookPath, getenv: os.Getenv}
}

// NewScannerWith creates a scanner with explicit probes, for callers that
// need deterministic host inspection.
func NewScannerWith(lookPath func(string) (string, error), getenv func(string) string) *Scanner {
	return &Scanner{lookPath: lookPath, getenv: getenv}
}

// Scan inspects one catalog entry. The second return is false when the
// entry is excluded: restricted to a different OS, or declaring nothing
// actionable (no bins, no anyBins, no install specs).
func (s *Scanner) Scan(entry registry.CatalogEntry, hostOS string) (Record, bool) {
	if !osMatches(entry.OS, hostOS) {
		return Record{}, false
	}

	req := entry.Requires
	if len(req.Bins) == 0 && len(req.AnyBins) == 0 && len(entry.Install) == 0 {
		return Record{}, false
	}

	rec := Record{
		Skill:           entry.Slug,
		RequiredBins:    req.Bins,
		RequiredAnyBins: req.AnyBins,
		RequiredEnv:     req.Env,
		HasAnyBin:       true,
	}

	for _, bin := range req.Bins {
		if !s.binPresent(bin) {
			rec.MissingBins = append(rec.MissingBins, bin)
		}
	}

	if len(req.AnyBins) > 0 {
		rec.HasAnyBin = false
		for _, bin := range req.AnyBins {
			if s.binPresent(bin) {
				rec.HasAnyBin = true
				break
			}
		}
	}

	for _, v := range req.Env {
		if s.getenv(v) == "" {
			rec.MissingEnv = append(rec.MissingEnv, v)
		}
	}

	return rec, true
}

// ScanAll scans every entry, skipping the excluded ones.
func (s *Scanner) ScanAll(entries []registry.CatalogEntry, hostOS string) []Record {
	var records []Record
	for _, e := range entries {
		if rec, ok := s.Scan(e, hostOS); ok {
			records = append(records, rec)
		}
	}
	return records
}

// BinPresent reports whether a binary is on the executable search path.
func (s *Scanner) BinPresent(bin string) bool {
	return s.binPresent(bin)
}

func (s *Scanner) binPresent(bin string) bool {
	_, err := s.lookPath(bin)
	return err == nil
}

func osMatches(allowed []string, hostOS string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == hostOS {
			return true
		}
	}
	return false
}
