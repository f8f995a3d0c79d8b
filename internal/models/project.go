package models

import "fmt"

// ProjectKind identifies the ecosystem of a detected project. Each kind is
// handled by exactly one manifest adapter.
type ProjectKind string

const (
	KindNodePackage         ProjectKind = "node"
	KindPythonProject       ProjectKind = "python"
	KindRustCrate           ProjectKind = "rust"
	KindRustWorkspaceMember ProjectKind = "rust-workspace-member"
	KindGoModule            ProjectKind = "go"
	KindRubyGem             ProjectKind = "ruby"
	KindHelmChart           ProjectKind = "helm"
)

// KindPriority lists every kind from highest to lowest detection priority.
var KindPriority = []ProjectKind{
	KindRustWorkspaceMember,
	KindRustCrate,
	KindNodePackage,
	KindPythonProject,
	KindGoModule,
	KindRubyGem,
	KindHelmChart,
}

// Priority returns the rank of k in KindPriority (0 is highest), or -1.
func (k ProjectKind) Priority() int {
	for i, kind := range KindPriority {
		if kind == k {
			return i
		}
	}
	return -1
}

// DisplayName returns a human readable label for the kind.
func (k ProjectKind) DisplayName() string {
	switch k {
	case KindNodePackage:
		return "Node.js package"
	case KindPythonProject:
		return "Python project"
	case KindRustCrate:
		return "Rust crate"
	case KindRustWorkspaceMember:
		return "Rust workspace member"
	case KindGoModule:
		return "Go module"
	case KindRubyGem:
		return "Ruby gem"
	case KindHelmChart:
		return "Helm chart"
	default:
		return string(k)
	}
}

// ParseProjectKind parses the string form of a ProjectKind.
func ParseProjectKind(s string) (ProjectKind, error) {
	k := ProjectKind(s)
	if k.Priority() < 0 {
		return "", fmt.Errorf("unknown project kind: %s", s)
	}
	return k, nil
}

// DetectedProject is the result of detection. It is created by the detector
// and consumed by a single release run.
type DetectedProject struct {
	// Kind selects the manifest adapter.
	Kind ProjectKind

	// Root is the directory that was inspected.
	Root string

	// PrimaryManifestPath is the file holding the authoritative version. For a
	// Rust workspace member this is the workspace root Cargo.toml.
	PrimaryManifestPath string

	// MemberManifestPath is the member Cargo.toml for RustWorkspaceMember.
	MemberManifestPath string

	// SatellitePaths are secondary files kept in sync with the primary manifest.
	SatellitePaths []string

	// Name is the package/crate/module name when the manifest declares one.
	Name string
}

// Files returns the primary manifest followed by the satellites.
func (p *DetectedProject) Files() []string {
	files := make([]string, 0, len(p.SatellitePaths)+1)
	if p.PrimaryManifestPath != "" {
		files = append(files, p.PrimaryManifestPath)
	}
	for _, s := range p.SatellitePaths {
		if s != p.PrimaryManifestPath {
			files = append(files, s)
		}
	}
	return files
}
