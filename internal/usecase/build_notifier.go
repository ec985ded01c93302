package usecase

import (
	"context"
	"fmt"
	"time"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
)

// Result tells the host what happened to a build notification.
type Result string

const (
	ResultSuppressed Result = "suppressed"
	ResultSent       Result = "sent"
	ResultFailed     Result = "failed"
)

// BuildNotifier is the build-completion hook: decide, compose, dispatch.
type BuildNotifier struct {
	dispatcher ports.Dispatcher
	logger     ports.Logger
}

// NewBuildNotifier constructs a BuildNotifier use case.
func NewBuildNotifier(dispatcher ports.Dispatcher, logger ports.Logger) *BuildNotifier {
	return &BuildNotifier{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Publish notifies about a finished build using the given settings snapshot.
// Nothing that goes wrong here is returned to the caller: a chat message must never fail
// or delay the build itself.
func (n *BuildNotifier) Publish(ctx context.Context, run ports.Run, settings model.Settings) (result Result) {
	start := time.Now()
	build := run.Build()

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error(ctx, "build notification panicked", "project", build.Project.DisplayName, "build", build.DisplayName, "panic", r)
			result = ResultFailed
		}
	}()

	outcome := run.Outcome().Effective()
	previous, err := run.Previous(ctx)
	if err != nil {
		// Without the predecessor we cannot prove the success is redundant.
		n.logger.Warn(ctx, "failed to look up previous build", "project", build.Project.DisplayName, "error", err)
		previous = nil
	}

	if !ShouldNotify(outcome, previous, settings.SmartNotify) {
		n.logger.Info(ctx, "notification suppressed", "project", build.Project.DisplayName, "build", build.DisplayName)
		return ResultSuppressed
	}

	changes := n.describeChanges(ctx, run)
	msg := Compose(build, outcome, changes, settings.Job(build.Project.DisplayName), settings.GlobalConfig)

	if err := n.dispatcher.Send(ctx, settings.Zulip, msg); err != nil {
		n.logger.Error(ctx, "failed to send build notification", "stream", msg.Stream, "topic", msg.Topic, "error", err)
		return ResultFailed
	}

	n.logger.Info(ctx, "build notification sent", "stream", msg.Stream, "topic", msg.Topic, "outcome", outcome, "duration", time.Since(start))
	return ResultSent
}

func (n *BuildNotifier) describeChanges(ctx context.Context, run ports.Run) (text string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error(ctx, "exception while computing changes since last build", "error", fmt.Sprint(r))
			text = changesErrorNotice
		}
	}()

	cs, err := run.ChangeSet(ctx)
	if err != nil {
		n.logger.Error(ctx, "exception while computing changes since last build", "error", err)
		return changesErrorNotice
	}
	return SummarizeChanges(cs)
}
