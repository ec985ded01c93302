package model

import "strings"

// Outcome is the result of a finished build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "SUCCESS"
	OutcomeFailure  Outcome = "FAILURE"
	OutcomeUnstable Outcome = "UNSTABLE"
	OutcomeAborted  Outcome = "ABORTED"
	OutcomeNotBuilt Outcome = "NOT_BUILT"
)

// ParseOutcome maps a host result string to an Outcome.
// An empty string stays unset; unknown values fall into NOT_BUILT.
func ParseOutcome(value string) Outcome {
	switch o := Outcome(strings.ToUpper(strings.TrimSpace(value))); o {
	case "":
		return ""
	case OutcomeSuccess, OutcomeFailure, OutcomeUnstable, OutcomeAborted, OutcomeNotBuilt:
		return o
	default:
		return OutcomeNotBuilt
	}
}

// Effective returns the outcome used for notifications.
// Pipelines without a post-build phase have no result yet when the hook runs, so an
// unset outcome counts as SUCCESS.
func (o Outcome) Effective() Outcome {
	if o == "" {
		return OutcomeSuccess
	}
	return o
}

// IsSuccess reports whether the effective outcome is SUCCESS.
func (o Outcome) IsSuccess() bool {
	return o.Effective() == OutcomeSuccess
}

func (o Outcome) String() string {
	return string(o.Effective())
}

// ProjectRef identifies the job owning a build.
type ProjectRef struct {
	DisplayName string
	Path        string
}

// BuildRef identifies a single build of a project.
type BuildRef struct {
	DisplayName string
	Path        string
	Number      int64
	Project     ProjectRef
}

// BuildRecord is a finished build as kept in the build history.
type BuildRecord struct {
	ProjectPath string
	Number      int64
	DisplayName string
	Outcome     Outcome
}
