package usecase

import "build-notifier/internal/domain/model"

// ShouldNotify decides whether a finished build is worth a message.
//
// Without smart mode every build notifies. With smart mode a build is suppressed only when
// it and its predecessor both succeeded: failures always notify, and the first success
// after a failure notifies once.
func ShouldNotify(current model.Outcome, previous *model.Outcome, smart bool) bool {
	if !smart {
		return true
	}
	if previous == nil {
		return true
	}
	return !current.IsSuccess() || !previous.IsSuccess()
}
