package engine

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"skillpack/internal/config"
	"skillpack/internal/deps"
	"skillpack/internal/registry"
	"skillpack/internal/state"
)

// testRegistry serves an index plus per-slug payloads over httptest.
type testRegistry struct {
	srv      *httptest.Server
	skills   []registry.CatalogEntry
	payloads map[string][]byte
}

func newTestRegistry(t *testing.T) *testRegistry {
	t.Helper()
	tr := &testRegistry{payloads: map[string][]byte{}}
	tr.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/index.json" {
			idx := registry.Index{Version: "1", Skills: tr.skills}
			json.NewEncoder(w).Encode(idx)
			return
		}
		slug := filepath.Base(r.URL.Path)
		payload, ok := tr.payloads[slug]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	t.Cleanup(tr.srv.Close)
	return tr
}

func (tr *testRegistry) add(entry registry.CatalogEntry, payload []byte) {
	if entry.DownloadURL == "" && payload != nil {
		entry.DownloadURL = tr.srv.URL + "/payload/" + entry.Slug
	}
	tr.skills = append(tr.skills, entry)
	if payload != nil {
		tr.payloads[entry.Slug] = payload
	}
}

func (tr *testRegistry) indexURL() string {
	return tr.srv.URL + "/index.json"
}

type approvalSpy struct {
	patterns []string
}

func (a *approvalSpy) Approve(pattern string) error {
	a.patterns = append(a.patterns, pattern)
	return nil
}

func newTestEngine(t *testing.T, tr *testRegistry) *Engine {
	t.Helper()
	tmp := t.TempDir()
	cfg := config.At(tmp, filepath.Join(tmp, "skills"))

	store := state.NewStore(cfg.StatePath)
	require.NoError(t, store.Load())

	client := registry.NewClient(tr.indexURL(), store, nil)
	return New(cfg, client, store, nil)
}

func TestInstallFlatScenario(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Name: "PDF Rotate", Version: "0.2.0"}, []byte("# PDF Rotate\n..."))
	e := newTestEngine(t, tr)

	res := e.Install("pdf-rotate")
	require.True(t, res.OK, "install failed: %v", res.Err)
	require.Equal(t, "0.2.0", res.Version)

	content, err := os.ReadFile(e.FlatPath("pdf-rotate"))
	require.NoError(t, err)
	require.Equal(t, "# PDF Rotate\n...", string(content))

	rec, ok := e.Store().Get("pdf-rotate")
	require.True(t, ok)
	require.Equal(t, "0.2.0", rec.Version)
	require.Equal(t, tr.indexURL(), rec.Source)
	require.Equal(t, "PDF Rotate", rec.Name)
}

func TestInstallIdempotent(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Version: "0.2.0"}, []byte("# PDF Rotate\n"))
	e := newTestEngine(t, tr)

	first := e.Install("pdf-rotate")
	require.True(t, first.OK)
	firstRec, _ := e.Store().Get("pdf-rotate")

	second := e.Install("pdf-rotate")
	require.True(t, second.OK)
	secondRec, _ := e.Store().Get("pdf-rotate")

	content, err := os.ReadFile(e.FlatPath("pdf-rotate"))
	require.NoError(t, err)
	require.Equal(t, "# PDF Rotate\n", string(content))
	require.Equal(t, firstRec.Version, secondRec.Version)
	require.GreaterOrEqual(t, secondRec.InstalledAt, firstRec.InstalledAt)
}

func TestInstallThenUninstallRoundTrip(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Version: "0.2.0"}, []byte("# PDF Rotate\n"))
	e := newTestEngine(t, tr)

	require.True(t, e.Install("pdf-rotate").OK)
	require.NoError(t, e.Uninstall("pdf-rotate"))

	_, ok := e.Store().Get("pdf-rotate")
	require.False(t, ok)
	_, err := os.Stat(e.FlatPath("pdf-rotate"))
	require.True(t, os.IsNotExist(err))
}

func TestInstallNotFoundSuggests(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Version: "0.2.0"}, []byte("x"))
	e := newTestEngine(t, tr)

	res := e.Install("pdf-rotat")
	require.False(t, res.OK)
	require.ErrorIs(t, res.Err, ErrNotFound)
	require.Equal(t, "pdf-rotate", res.Suggestion)
}

func TestInstallMissingDownloadURL(t *testing.T) {
	tr := newTestRegistry(t)
	tr.skills = append(tr.skills, registry.CatalogEntry{Slug: "broken", Version: "1.0"})
	e := newTestEngine(t, tr)

	res := e.Install("broken")
	require.False(t, res.OK)
	require.Error(t, res.Err)
	_, ok := e.Store().Get("broken")
	require.False(t, ok, "no partial state on lookup failure")
}

func TestInstallEmptyFlatPayload(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "hollow", Version: "1.0"}, []byte{})
	e := newTestEngine(t, tr)

	res := e.Install("hollow")
	require.False(t, res.OK)
	require.ErrorIs(t, res.Err, ErrEmptyPayload)
	_, ok := e.Store().Get("hollow")
	require.False(t, ok)
}

func TestInstallPack(t *testing.T) {
	payload := buildArchive(t, []tarEntry{
		{name: "toolkit/", dir: true},
		{name: "toolkit/SKILL.md", body: "# Toolkit\n"},
		{name: "toolkit/scripts/run.sh", body: "echo run\n"},
	})

	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "toolkit", Name: "Toolkit", Version: "1.1", Pack: true}, payload)
	e := newTestEngine(t, tr)

	res := e.Install("toolkit")
	require.True(t, res.OK, "install failed: %v", res.Err)
	require.Equal(t, e.DirPath("toolkit"), res.Path)

	content, err := os.ReadFile(filepath.Join(e.DirPath("toolkit"), "SKILL.md"))
	require.NoError(t, err)
	require.Equal(t, "# Toolkit\n", string(content))

	rec, ok := e.Store().Get("toolkit")
	require.True(t, ok)
	require.Equal(t, "1.1", rec.Version)

	// No extraction scratch left behind
	entries, err := os.ReadDir(filepath.Dir(e.DirPath("toolkit")))
	require.NoError(t, err)
	for _, ent := range entries {
		require.False(t, ent.IsDir() && ent.Name() != "toolkit", "leftover dir %s", ent.Name())
	}
}

func TestInstallPackReplacesExisting(t *testing.T) {
	payload := buildArchive(t, []tarEntry{
		{name: "toolkit/", dir: true},
		{name: "toolkit/SKILL.md", body: "v2"},
	})

	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "toolkit", Version: "2.0", Pack: true}, payload)
	e := newTestEngine(t, tr)

	// Pre-existing install with a file the new pack doesn't carry
	require.NoError(t, os.MkdirAll(e.DirPath("toolkit"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.DirPath("toolkit"), "stale.txt"), []byte("old"), 0o644))

	res := e.Install("toolkit")
	require.True(t, res.OK, "install failed: %v", res.Err)

	_, err := os.Stat(filepath.Join(e.DirPath("toolkit"), "stale.txt"))
	require.True(t, os.IsNotExist(err), "old directory content must be replaced")
}

func TestInstallPackTraversalLeavesTargetUntouched(t *testing.T) {
	payload := buildArchive(t, []tarEntry{
		{name: "evil-pack/", dir: true},
		{name: "evil-pack/SKILL.md", body: "x"},
		{name: "../evil", body: "bad"},
	})

	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "evil-pack", Version: "1.0", Pack: true}, payload)
	e := newTestEngine(t, tr)

	res := e.Install("evil-pack")
	require.False(t, res.OK)
	require.ErrorIs(t, res.Err, ErrSecurity)

	_, err := os.Stat(e.DirPath("evil-pack"))
	require.True(t, os.IsNotExist(err), "target directory must not be created")
	_, ok := e.Store().Get("evil-pack")
	require.False(t, ok)
}

func TestInstallPackAbsolutePathRejected(t *testing.T) {
	payload := buildArchive(t, []tarEntry{
		{name: "/etc/passwd", body: "bad"},
	})

	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "abs-pack", Version: "1.0", Pack: true}, payload)
	e := newTestEngine(t, tr)

	res := e.Install("abs-pack")
	require.False(t, res.OK)
	require.ErrorIs(t, res.Err, ErrSecurity)
}

func TestUpdateNotTracked(t *testing.T) {
	tr := newTestRegistry(t)
	e := newTestEngine(t, tr)

	res := e.Update("ghost")
	require.False(t, res.OK)
	require.ErrorIs(t, res.Err, ErrNotTracked)
}

func TestUpdateReinstalls(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Version: "0.2.0"}, []byte("v1"))
	e := newTestEngine(t, tr)

	require.True(t, e.Install("pdf-rotate").OK)

	// Registry moves on
	tr.skills[0].Version = "0.3.0"
	tr.payloads["pdf-rotate"] = []byte("v2")

	res := e.Update("pdf-rotate")
	require.True(t, res.OK, "update failed: %v", res.Err)

	content, err := os.ReadFile(e.FlatPath("pdf-rotate"))
	require.NoError(t, err)
	require.Equal(t, "v2", string(content))
	rec, _ := e.Store().Get("pdf-rotate")
	require.Equal(t, "0.3.0", rec.Version)
}

func TestUninstallNothingOnDisk(t *testing.T) {
	tr := newTestRegistry(t)
	e := newTestEngine(t, tr)

	err := e.Uninstall("ghost")
	require.ErrorIs(t, err, ErrNotTracked)
}

func TestUninstallUntrackedButOnDisk(t *testing.T) {
	tr := newTestRegistry(t)
	e := newTestEngine(t, tr)

	// Manually placed skill, never tracked
	require.NoError(t, os.MkdirAll(e.cfg.SkillsDir, 0o755))
	require.NoError(t, os.WriteFile(e.FlatPath("manual"), []byte("x"), 0o644))

	require.NoError(t, e.Uninstall("manual"))
	_, err := os.Stat(e.FlatPath("manual"))
	require.True(t, os.IsNotExist(err))
}

func TestSearchAnnotatesInstalled(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Name: "PDF Rotate", Version: "0.2.0"}, []byte("x"))
	tr.add(registry.CatalogEntry{Slug: "pdf-merge", Name: "PDF Merge", Version: "1.0"}, []byte("y"))
	e := newTestEngine(t, tr)

	require.True(t, e.Install("pdf-rotate").OK)

	results := e.Search("pdf", 0)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, r.Entry.Slug == "pdf-rotate", r.Installed)
	}
}

func TestSearchSeesManuallyPlacedSkill(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{Slug: "pdf-rotate", Name: "PDF Rotate"}, []byte("x"))
	e := newTestEngine(t, tr)

	require.NoError(t, os.MkdirAll(e.cfg.SkillsDir, 0o755))
	require.NoError(t, os.WriteFile(e.FlatPath("pdf-rotate"), []byte("manual"), 0o644))

	results := e.Search("pdf-rotate", 0)
	require.NotEmpty(t, results)
	require.True(t, results[0].Installed, "on-disk but untracked still counts as installed")
}

func TestResolveDepsAdvisoryFailure(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{
		Slug:     "needs-qpdf",
		Version:  "1.0",
		Requires: registry.Requirements{Bins: []string{"qpdf"}},
		Install:  []registry.InstallSpec{{Kind: registry.KindBrew, Formula: "qpdf"}},
	}, []byte("# Needs qpdf\n"))
	e := newTestEngine(t, tr)

	e.scanner = deps.NewScannerWith(
		func(string) (string, error) { return "", errors.New("not found") },
		func(string) string { return "" },
	)
	e.selector = deps.NewSelectorWith(func(name string) (string, error) {
		if name == "brew" {
			return "/usr/local/bin/brew", nil
		}
		return "", errors.New("not found")
	})
	e.runInstall = func(command string) (string, error) {
		return "", errors.New("formula build failed")
	}

	spy := &approvalSpy{}
	e.SetSandbox(spy)

	res := e.Install("needs-qpdf")
	require.True(t, res.OK, "dependency failure must not fail the install")
	require.NotNil(t, res.Deps)
	require.False(t, res.Deps.DepsOK)
	require.Equal(t, []string{"qpdf"}, res.Deps.Missing)
	require.Empty(t, spy.patterns, "no approval after a failed dependency install")

	_, tracked := e.Store().Get("needs-qpdf")
	require.True(t, tracked, "tracking happens before dependency resolution")
}

func TestResolveDepsApprovesNewBinaries(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{
		Slug:     "needs-qpdf",
		Version:  "1.0",
		Requires: registry.Requirements{Bins: []string{"qpdf"}},
		Install:  []registry.InstallSpec{{Kind: registry.KindBrew, Formula: "qpdf"}},
	}, []byte("# Needs qpdf\n"))
	e := newTestEngine(t, tr)

	present := map[string]bool{"brew": true}
	lookPath := func(name string) (string, error) {
		if present[name] {
			return "/usr/local/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	e.scanner = deps.NewScannerWith(lookPath, func(string) string { return "" })
	e.selector = deps.NewSelectorWith(lookPath)
	e.runInstall = func(command string) (string, error) {
		require.Equal(t, "brew install qpdf", command)
		present["qpdf"] = true
		return "installed", nil
	}

	spy := &approvalSpy{}
	e.SetSandbox(spy)

	res := e.Install("needs-qpdf")
	require.True(t, res.OK)
	require.NotNil(t, res.Deps)
	require.True(t, res.Deps.DepsOK)
	require.Equal(t, []string{"qpdf"}, spy.patterns)
}

func TestResolveDepsNoInstallSpecs(t *testing.T) {
	tr := newTestRegistry(t)
	tr.add(registry.CatalogEntry{
		Slug:     "bare-need",
		Version:  "1.0",
		Requires: registry.Requirements{Bins: []string{"exoticbin"}},
	}, []byte("# Bare\n"))
	e := newTestEngine(t, tr)

	e.scanner = deps.NewScannerWith(
		func(string) (string, error) { return "", errors.New("not found") },
		func(string) string { return "" },
	)

	res := e.Install("bare-need")
	require.True(t, res.OK)
	require.False(t, res.Deps.DepsOK)
	require.Contains(t, res.Deps.Message, "no install method")
}
