package registry

// Index represents the remote registry index document
type Index struct {
	Version   string         `json:"version"`
	UpdatedAt string         `json:"updated_at,omitempty"`
	Skills    []CatalogEntry `json:"skills"`
}

// EmptyIndex is what callers get when the registry is unreachable and no
// cached copy exists.
func EmptyIndex() *Index {
	return &Index{Version: "0"}
}

// CatalogEntry represents one installable skill in the index
type CatalogEntry struct {
	Slug        string        `json:"slug"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Version     string        `json:"version,omitempty"`
	Author      string        `json:"author,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	OS          []string      `json:"os,omitempty"` // allowed host OS values; empty means any
	Requires    Requirements  `json:"requires,omitempty"`
	Install     []InstallSpec `json:"install,omitempty"`
	DownloadURL string        `json:"download_url,omitempty"`
	Pack        bool          `json:"pack,omitempty"`
}

// Requirements declares what a skill needs from the host
type Requirements struct {
	Bins    []string `json:"bins,omitempty"`     // all must be on PATH
	AnyBins []string `json:"any_bins,omitempty"` // at least one must be on PATH
	Env     []string `json:"env,omitempty"`      // environment variables that must be set
}

// Empty reports whether the entry declares nothing at all.
func (r Requirements) Empty() bool {
	return len(r.Bins) == 0 && len(r.AnyBins) == 0 && len(r.Env) == 0
}

// InstallerKind identifies which OS-level package manager satisfies a
// binary dependency. The set is closed; anything else is invalid.
type InstallerKind string

const (
	KindBrew     InstallerKind = "brew"
	KindBrewCask InstallerKind = "brew-cask"
	KindGo       InstallerKind = "go"
	KindNode     InstallerKind = "node"
	KindUV       InstallerKind = "uv"
	KindApt      InstallerKind = "apt"
)

// ManagerBinary returns the executable that backs this kind.
func (k InstallerKind) ManagerBinary() string {
	switch k {
	case KindBrew, KindBrewCask:
		return "brew"
	case KindNode:
		return "npm"
	case KindGo, KindUV, KindApt:
		return string(k)
	}
	return ""
}

// Valid reports whether k is one of the known kinds.
func (k InstallerKind) Valid() bool {
	return k.ManagerBinary() != ""
}

// InstallSpec describes one way to install a skill's binary dependency.
// A catalog entry may list several; at most one is executed per attempt.
type InstallSpec struct {
	Kind    InstallerKind `json:"kind"`
	Formula string        `json:"formula,omitempty"` // brew, brew-cask
	Module  string        `json:"module,omitempty"`  // go
	Package string        `json:"package,omitempty"` // node, uv, apt
	Bins    []string      `json:"bins,omitempty"`
	Label   string        `json:"label,omitempty"`
}

// Find returns the first entry with the given slug, or nil. Duplicate slugs
// within one index resolve to the first occurrence.
func (idx *Index) Find(slug string) *CatalogEntry {
	if idx == nil {
		return nil
	}
	for i := range idx.Skills {
		if idx.Skills[i].Slug == slug {
			return &idx.Skills[i]
		}
	}
	return nil
}

// Slugs returns every slug in catalog order.
func (idx *Index) Slugs() []string {
	if idx == nil {
		return nil
	}
	slugs := make([]string, len(idx.Skills))
	for i := range idx.Skills {
		slugs[i] = idx.Skills[i].Slug
	}
	return slugs
}
