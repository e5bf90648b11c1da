package deps

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"skillpack/internal/registry"
)

const installTimeout = 300 * time.Second

// preference is the fixed order used to pick among specs whose backing
// manager is available.
var preference = []registry.InstallerKind{
	registry.KindBrew,
	registry.KindBrewCask,
	registry.KindGo,
	registry.KindNode,
	registry.KindUV,
	registry.KindApt,
}

// Selector maps a skill's install specs to a concrete package-manager
// invocation on this host.
type Selector struct {
	lookPath func(string) (string, error)
}

// NewSelector creates a selector backed by the real PATH.
func NewSelector() *Selector {
	return &Selector{lookPath: exec.LookPath}
}

// NewSelectorWith creates a selector with an explicit PATH probe.
func NewSelectorWith(lookPath func(string) (string, error)) *Selector {
	return &Selector{lookPath: lookPath}
}

// PickBest chooses the spec to execute. Specs whose backing manager binary
// is absent are filtered out; among the rest the fixed preference order
// wins. When no backing manager is available at all, the first spec is
// returned unchanged as a best effort; the resulting command may fail,
// which is a handled outcome. The second return is false only when specs
// is empty.
func (s *Selector) PickBest(specs []registry.InstallSpec) (registry.InstallSpec, bool) {
	if len(specs) == 0 {
		return registry.InstallSpec{}, false
	}

	var available []registry.InstallSpec
	for _, spec := range specs {
		if !spec.Kind.Valid() {
			continue
		}
		if _, err := s.lookPath(spec.Kind.ManagerBinary()); err == nil {
			available = append(available, spec)
		}
	}

	if len(available) == 0 {
		return specs[0], true
	}

	for _, kind := range preference {
		for _, spec := range available {
			if spec.Kind == kind {
				return spec, true
			}
		}
	}
	return available[0], true
}

// BuildCommand formats the manager-specific install invocation. It returns
// false when the spec's required field is absent.
func BuildCommand(spec registry.InstallSpec) (string, bool) {
	switch spec.Kind {
	case registry.KindBrew:
		if spec.Formula == "" {
			return "", false
		}
		return "brew install " + spec.Formula, true
	case registry.KindBrewCask:
		if spec.Formula == "" {
			return "", false
		}
		return "brew install --cask " + spec.Formula, true
	case registry.KindGo:
		if spec.Module == "" {
			return "", false
		}
		return "go install " + spec.Module, true
	case registry.KindNode:
		if spec.Package == "" {
			return "", false
		}
		return "npm install -g " + spec.Package, true
	case registry.KindUV:
		if spec.Package == "" {
			return "", false
		}
		return "uv tool install " + spec.Package, true
	case registry.KindApt:
		if spec.Package == "" {
			return "", false
		}
		return "sudo apt-get install -y " + spec.Package, true
	}
	return "", false
}

// RunInstall executes an install command through the shell with a fixed
// timeout. Success is exit code 0; combined output is returned either way.
func RunInstall(command string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return string(output), fmt.Errorf("install command timed out after %s: %s", installTimeout, command)
	}
	if err != nil {
		return string(output), fmt.Errorf("install command failed: %w", err)
	}
	return string(output), nil
}
