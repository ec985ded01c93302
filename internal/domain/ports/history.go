package ports

import (
	"context"

	"build-notifier/internal/domain/model"
)

// BuildHistory remembers finished builds so smart notify can look back one build.
type BuildHistory interface {
	Record(ctx context.Context, rec model.BuildRecord) error
	Previous(ctx context.Context, projectPath string, number int64) (model.Outcome, bool, error)
	Prune(ctx context.Context, keepPerProject int) (int64, error)
	Close() error
}
