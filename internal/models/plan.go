package models

// Operation is the kind of change a BumpPlan describes.
type Operation string

const (
	OperationBump Operation = "bump"
	OperationSet  Operation = "set"
)

// BumpPlan describes a version change before it is applied. It is computed
// identically for dry runs and real runs.
type BumpPlan struct {
	Project        *DetectedProject
	Operation      Operation
	BumpType       BumpType // only for OperationBump
	CurrentVersion *Version
	TargetVersion  *Version
	Forced         bool
	Warnings       []string
	FilesToModify  []string
}

// AddWarning records a non-fatal observation about the plan.
func (p *BumpPlan) AddWarning(msg string) {
	p.Warnings = append(p.Warnings, msg)
}

// IsDowngrade reports whether the target is not higher than the current version.
func (p *BumpPlan) IsDowngrade() bool {
	return p.TargetVersion.Compare(p.CurrentVersion) <= 0
}
