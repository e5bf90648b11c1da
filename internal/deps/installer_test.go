package deps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"skillpack/internal/registry"
)

func fakeSelector(managers ...string) *Selector {
	present := make(map[string]bool, len(managers))
	for _, m := range managers {
		present[m] = true
	}
	return &Selector{lookPath: func(name string) (string, error) {
		if present[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}}
}

func TestPickBestPrefersBrew(t *testing.T) {
	s := fakeSelector("brew", "npm", "apt")
	specs := []registry.InstallSpec{
		{Kind: registry.KindApt, Package: "jq"},
		{Kind: registry.KindNode, Package: "jq-cli"},
		{Kind: registry.KindBrew, Formula: "jq"},
	}

	picked, ok := s.PickBest(specs)
	require.True(t, ok)
	require.Equal(t, registry.KindBrew, picked.Kind)
}

func TestPickBestSkipsAbsentManagers(t *testing.T) {
	s := fakeSelector("apt")
	specs := []registry.InstallSpec{
		{Kind: registry.KindBrew, Formula: "jq"},
		{Kind: registry.KindApt, Package: "jq"},
	}

	picked, ok := s.PickBest(specs)
	require.True(t, ok)
	require.Equal(t, registry.KindApt, picked.Kind)
}

func TestPickBestNodeMapsToNpm(t *testing.T) {
	s := fakeSelector("npm")
	specs := []registry.InstallSpec{
		{Kind: registry.KindNode, Package: "prettier"},
	}

	picked, ok := s.PickBest(specs)
	require.True(t, ok)
	require.Equal(t, registry.KindNode, picked.Kind)
}

func TestPickBestFallsBackToFirstSpec(t *testing.T) {
	s := fakeSelector() // nothing available
	specs := []registry.InstallSpec{
		{Kind: registry.KindUV, Package: "ruff"},
		{Kind: registry.KindBrew, Formula: "ruff"},
	}

	picked, ok := s.PickBest(specs)
	require.True(t, ok)
	require.Equal(t, specs[0], picked, "no managers available falls back to first spec unchanged")
}

func TestPickBestEmptySpecs(t *testing.T) {
	s := fakeSelector("brew")
	_, ok := s.PickBest(nil)
	require.False(t, ok)
}

func TestBuildCommand(t *testing.T) {
	cases := []struct {
		spec registry.InstallSpec
		want string
		ok   bool
	}{
		{registry.InstallSpec{Kind: registry.KindBrew, Formula: "jq"}, "brew install jq", true},
		{registry.InstallSpec{Kind: registry.KindBrewCask, Formula: "docker"}, "brew install --cask docker", true},
		{registry.InstallSpec{Kind: registry.KindGo, Module: "golang.org/x/tools/cmd/goimports@latest"}, "go install golang.org/x/tools/cmd/goimports@latest", true},
		{registry.InstallSpec{Kind: registry.KindNode, Package: "prettier"}, "npm install -g prettier", true},
		{registry.InstallSpec{Kind: registry.KindUV, Package: "ruff"}, "uv tool install ruff", true},
		{registry.InstallSpec{Kind: registry.KindApt, Package: "ripgrep"}, "sudo apt-get install -y ripgrep", true},
		{registry.InstallSpec{Kind: registry.KindBrew}, "", false},
		{registry.InstallSpec{Kind: registry.KindGo}, "", false},
		{registry.InstallSpec{Kind: registry.KindApt}, "", false},
		{registry.InstallSpec{Kind: "pacman", Package: "jq"}, "", false},
	}

	for _, c := range cases {
		got, ok := BuildCommand(c.spec)
		require.Equal(t, c.ok, ok, "spec %+v", c.spec)
		require.Equal(t, c.want, got, "spec %+v", c.spec)
	}
}

func TestRunInstallSuccessAndFailure(t *testing.T) {
	out, err := RunInstall("echo hello")
	require.NoError(t, err)
	require.Contains(t, out, "hello")

	_, err = RunInstall("exit 3")
	require.Error(t, err)
}
