// Package engine orchestrates skill installation: catalog lookup, payload
// download, archive validation, placement, state tracking, and dependency
// resolution. All operations are synchronous; callers wanting concurrency
// must serialize installs of the same slug and state-file writes.
package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"skillpack/internal/agents"
	"skillpack/internal/config"
	"skillpack/internal/deps"
	"skillpack/internal/logx"
	"skillpack/internal/registry"
	"skillpack/internal/state"
)

// Approver is the execution-sandbox collaborator. Approve is called once
// per dependency binary that becomes newly available after a successful
// dependency install, never after a failed one.
type Approver interface {
	Approve(pattern string) error
}

// DepReport is the advisory outcome of dependency resolution. It never
// escalates to overall install failure.
type DepReport struct {
	DepsOK  bool
	Missing []string
	Message string
}

// InstallResult is the structured outcome of an install, update, or
// uninstall attempt. Err wraps one of the package's sentinel errors.
type InstallResult struct {
	OK         bool
	Slug       string
	Version    string
	Path       string
	Err        error
	Suggestion string // closest known slug when the lookup missed
	Deps       *DepReport
}

// Engine drives the install state machine. Construct one per registry;
// instances are caller-owned, there is no shared global.
type Engine struct {
	cfg      *config.Config
	reg      *registry.Client
	store    *state.Store
	scanner  *deps.Scanner
	selector *deps.Selector
	sandbox  Approver
	agents   *agents.Manager
	log      *log.Logger
	hostOS   string

	// swappable in tests to avoid invoking real package managers
	runInstall func(command string) (string, error)
}

// New creates an engine. logger may be nil.
func New(cfg *config.Config, reg *registry.Client, store *state.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = logx.Discard()
	}
	return &Engine{
		cfg:        cfg,
		reg:        reg,
		store:      store,
		scanner:    deps.NewScanner(),
		selector:   deps.NewSelector(),
		log:        logger,
		hostOS:     runtime.GOOS,
		runInstall: deps.RunInstall,
	}
}

// SetSandbox registers the execution-sandbox collaborator.
func (e *Engine) SetSandbox(a Approver) {
	e.sandbox = a
}

// SetAgents registers the agent-configuration document manager.
func (e *Engine) SetAgents(m *agents.Manager) {
	e.agents = m
}

// Registry exposes the engine's registry client.
func (e *Engine) Registry() *registry.Client {
	return e.reg
}

// Store exposes the engine's state store.
func (e *Engine) Store() *state.Store {
	return e.store
}

// FlatPath returns where a flat skill payload lives.
func (e *Engine) FlatPath(slug string) string {
	return filepath.Join(e.cfg.SkillsDir, slug+".md")
}

// DirPath returns where a pack skill payload lives.
func (e *Engine) DirPath(slug string) string {
	return filepath.Join(e.cfg.SkillsDir, slug)
}

// IsInstalled reports whether a skill's payload exists on disk, tracked or
// not. Skills can be placed manually.
func (e *Engine) IsInstalled(slug string) bool {
	if _, err := os.Stat(e.FlatPath(slug)); err == nil {
		return true
	}
	if info, err := os.Stat(e.DirPath(slug)); err == nil && info.IsDir() {
		return true
	}
	return false
}

// Install runs the full state machine for one slug:
// lookup → download → place → track → resolve deps.
func (e *Engine) Install(slug string) InstallResult {
	res := InstallResult{Slug: slug}

	idx := e.reg.FetchIndex(false)
	entry := idx.Find(slug)
	if entry == nil {
		res.Err = fmt.Errorf("%w: %s", ErrNotFound, slug)
		res.Suggestion = closestSlug(slug, idx.Slugs())
		e.log.Printf("install %s: not found in catalog", slug)
		return res
	}
	if entry.DownloadURL == "" {
		res.Err = fmt.Errorf("catalog entry %s has no download_url", slug)
		e.log.Printf("install %s: missing download_url", slug)
		return res
	}
	res.Version = entry.Version

	payload, err := e.reg.Download(entry.DownloadURL)
	if err != nil {
		res.Err = fmt.Errorf("%w: download %s: %v", ErrNetwork, entry.DownloadURL, err)
		e.log.Printf("install %s: download failed: %v", slug, err)
		return res
	}

	var target string
	if entry.Pack {
		target, err = e.placePack(slug, payload)
	} else {
		target, err = e.placeFlat(slug, payload)
	}
	if err != nil {
		res.Err = err
		e.log.Printf("install %s: %v", slug, err)
		return res
	}

	// The tracking invariant: record only a verified write.
	if _, err := os.Stat(target); err != nil {
		res.Err = fmt.Errorf("payload missing after write at %s: %v", target, err)
		e.log.Printf("install %s: %v", slug, res.Err)
		return res
	}

	rec := state.Record{
		Version:     entry.Version,
		InstalledAt: time.Now().Unix(),
		Source:      e.reg.URL(),
		Name:        entry.Name,
	}
	if err := e.store.Put(slug, rec); err != nil {
		res.Err = fmt.Errorf("record install state: %w", err)
		e.log.Printf("install %s: %v", slug, res.Err)
		return res
	}

	res.OK = true
	res.Path = target
	res.Deps = e.resolveDeps(*entry)
	e.log.Printf("install %s@%s: ok at %s", slug, entry.Version, target)
	return res
}

// Update re-installs a tracked skill. Unknown slugs fail fast.
func (e *Engine) Update(slug string) InstallResult {
	if _, ok := e.store.Get(slug); !ok {
		e.log.Printf("update %s: not tracked", slug)
		return InstallResult{Slug: slug, Err: fmt.Errorf("%w: %s", ErrNotTracked, slug)}
	}
	return e.Install(slug)
}

// Uninstall removes the skill's flat file and/or directory, then its
// tracking entry. The two removals are independent and idempotent; at least
// one payload path must exist.
func (e *Engine) Uninstall(slug string) error {
	flat := e.FlatPath(slug)
	dir := e.DirPath(slug)

	_, flatErr := os.Stat(flat)
	info, dirErr := os.Stat(dir)
	haveFlat := flatErr == nil
	haveDir := dirErr == nil && info.IsDir()

	if !haveFlat && !haveDir {
		e.log.Printf("uninstall %s: nothing on disk", slug)
		return fmt.Errorf("%w: %s", ErrNotTracked, slug)
	}

	if haveFlat {
		if err := os.Remove(flat); err != nil {
			return fmt.Errorf("remove %s: %w", flat, err)
		}
	}
	if haveDir {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove %s: %w", dir, err)
		}
	}

	if err := e.store.Remove(slug); err != nil {
		return fmt.Errorf("untrack %s: %w", slug, err)
	}
	e.log.Printf("uninstall %s: ok", slug)
	return nil
}

// Search ranks catalog entries against a query and annotates installed
// status from the state store plus a direct filesystem check.
func (e *Engine) Search(query string, limit int) []registry.SearchResult {
	results := registry.Search(e.reg.FetchIndex(false), query, limit)
	registry.MarkInstalled(results, func(slug string) bool {
		if _, ok := e.store.Get(slug); ok {
			return true
		}
		return e.IsInstalled(slug)
	})
	return results
}

// ScanDeps inspects the whole catalog's requirements against this host.
func (e *Engine) ScanDeps(force bool) []deps.Record {
	idx := e.reg.FetchIndex(force)
	return e.scanner.ScanAll(idx.Skills, e.hostOS)
}

// AssignAgents appends the slug to one agent's skill list, or to every
// agent when agent is agents.All. No-op when no agents document is wired.
func (e *Engine) AssignAgents(slug, agent string) error {
	if e.agents == nil {
		return nil
	}
	return e.agents.Assign(slug, agent)
}

func (e *Engine) placeFlat(slug string, payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyPayload, slug)
	}
	if err := os.MkdirAll(e.cfg.SkillsDir, 0o755); err != nil {
		return "", err
	}

	target := e.FlatPath(slug)
	tmp, err := os.CreateTemp(e.cfg.SkillsDir, "."+slug+"-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return target, nil
}

func (e *Engine) placePack(slug string, payload []byte) (string, error) {
	// Every member path is checked before anything touches the filesystem.
	if err := validateArchive(payload); err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.cfg.SkillsDir, 0o755); err != nil {
		return "", err
	}

	// Scratch lives next to the target so the final rename stays on one
	// filesystem.
	scratch, err := os.MkdirTemp(e.cfg.SkillsDir, "."+slug+"-extract-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(scratch)

	topDir, err := extractArchive(payload, scratch)
	if err != nil {
		return "", err
	}

	target := e.DirPath(slug)
	// Not atomic across the pair; a crash between remove and rename leaves
	// no directory for the slug.
	if err := os.RemoveAll(target); err != nil {
		return "", err
	}
	if err := os.Rename(topDir, target); err != nil {
		return "", err
	}
	return target, nil
}

func (e *Engine) resolveDeps(entry registry.CatalogEntry) *DepReport {
	rec, ok := e.scanner.Scan(entry, e.hostOS)
	if !ok || rec.Satisfied() {
		return &DepReport{DepsOK: true}
	}

	report := &DepReport{Missing: rec.MissingBins}

	spec, ok := e.selector.PickBest(entry.Install)
	if !ok {
		report.Message = fmt.Sprintf("%v (missing: %s)", ErrDependencyUnavailable, strings.Join(rec.MissingBins, ", "))
		e.log.Printf("deps %s: %s", entry.Slug, report.Message)
		return report
	}

	command, ok := deps.BuildCommand(spec)
	if !ok {
		report.Message = fmt.Sprintf("install spec %q is incomplete", spec.Kind)
		e.log.Printf("deps %s: %s", entry.Slug, report.Message)
		return report
	}

	if _, err := e.runInstall(command); err != nil {
		report.Message = fmt.Sprintf("%q failed: %v", command, err)
		e.log.Printf("deps %s: command %q failed: %v", entry.Slug, command, err)
		return report
	}

	// See which of the missing binaries the install actually provided and
	// widen the sandbox allowlist for each one.
	var stillMissing []string
	for _, bin := range rec.MissingBins {
		if e.scanner.BinPresent(bin) {
			if e.sandbox != nil {
				if err := e.sandbox.Approve(bin); err != nil {
					e.log.Printf("deps %s: approve %s: %v", entry.Slug, bin, err)
				}
			}
			continue
		}
		stillMissing = append(stillMissing, bin)
	}

	report.Missing = stillMissing
	report.DepsOK = len(stillMissing) == 0
	if report.DepsOK {
		report.Message = fmt.Sprintf("installed via %q", command)
	} else {
		report.Message = fmt.Sprintf("ran %q but still missing: %s", command, strings.Join(stillMissing, ", "))
	}
	e.log.Printf("deps %s: %s", entry.Slug, report.Message)
	return report
}

// closestSlug suggests the nearest known slug within a small edit distance.
func closestSlug(slug string, known []string) string {
	best := ""
	bestDist := 4 // anything further is noise
	for _, k := range known {
		if d := levenshtein.ComputeDistance(slug, k); d < bestDist {
			best = k
			bestDist = d
		}
	}
	return best
}
