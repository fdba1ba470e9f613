package models

// TargetStatus represents the outcome of processing a single target
type TargetStatus interface {
	isTargetStatus()
}

type targetStatusCreated struct{}
type targetStatusDryRun struct{}
type targetStatusFailed struct{ Error string }

func (targetStatusCreated) isTargetStatus() {}
func (targetStatusDryRun) isTargetStatus()  {}
func (targetStatusFailed) isTargetStatus()  {}

// TargetStatus variants
var (
	// Created indicates the pull request was opened
	Created TargetStatus = targetStatusCreated{}
	// DryRun indicates every step ran except the remote mutations
	DryRun TargetStatus = targetStatusDryRun{}
)

// Failed creates a TargetStatus for a failed target with an error message
func Failed(err string) TargetStatus {
	return targetStatusFailed{Error: err}
}

// Step names a phase of target processing
type Step string

const (
	StepReconcile Step = "reconcile"
	StepClone     Step = "clone"
	StepSync      Step = "sync"
	StepPublish   Step = "publish"
	StepDone      Step = "done"
)

// TargetResult represents the result of processing a single target
type TargetResult struct {
	// Target is the repository that was processed
	Target RepoTarget
	// Status of the operation
	Status TargetStatus
	// Step is the last step reached; the failing step when Status is Failed
	Step Step
	// PrURL if created
	PrURL string
	// Closed is the number of stale pull requests closed during reconciliation
	Closed int
	// Commit is the replayed content commit hash
	Commit string
}

// IsStatusCreated returns true if status is Created
func IsStatusCreated(s TargetStatus) bool {
	_, ok := s.(targetStatusCreated)
	return ok
}

// IsStatusDryRun returns true if status is DryRun
func IsStatusDryRun(s TargetStatus) bool {
	_, ok := s.(targetStatusDryRun)
	return ok
}

// IsStatusFailed returns true if status is Failed
func IsStatusFailed(s TargetStatus) bool {
	_, ok := s.(targetStatusFailed)
	return ok
}

// IsStatusSuccess returns true if status is Created or DryRun
func IsStatusSuccess(s TargetStatus) bool {
	return IsStatusCreated(s) || IsStatusDryRun(s)
}

// GetStatusReason returns the error string for Failed statuses
func GetStatusReason(s TargetStatus) string {
	if failed, ok := s.(targetStatusFailed); ok {
		return failed.Error
	}
	return ""
}

// StatusLabel returns a short display label for a status
func StatusLabel(s TargetStatus) string {
	switch {
	case IsStatusCreated(s):
		return "created"
	case IsStatusDryRun(s):
		return "dry-run"
	case IsStatusFailed(s):
		return "failed"
	default:
		return "unknown"
	}
}
