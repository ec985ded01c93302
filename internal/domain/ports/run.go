package ports

import (
	"context"

	"build-notifier/internal/domain/model"
)

// Run is the host's view of a finished build.
type Run interface {
	Build() model.BuildRef
	// Outcome may be unset when the host has not recorded a result yet.
	Outcome() model.Outcome
	// Previous returns the outcome of the preceding build, or nil when there is none.
	Previous(ctx context.Context) (*model.Outcome, error)
	ChangeSet(ctx context.Context) (model.ChangeSet, error)
}
