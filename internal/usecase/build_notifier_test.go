package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"build-notifier/internal/domain/model"
)

func newRun(outcome model.Outcome) *fakeRun {
	return &fakeRun{
		build:   testBuild(),
		outcome: outcome,
		changes: model.EmptyChanges(),
	}
}

func TestPublishSendsWithDefaults(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	result := notifier.Publish(context.Background(), newRun(model.OutcomeSuccess), testSettings())

	assert.Equal(t, ResultSent, result)
	require.Len(t, dispatcher.sent, 1)
	sent := dispatcher.sent[0]
	assert.Equal(t, model.ZulipCredentials{URL: "zulipUrl", Email: "jenkins-bot@zulip.com", APIKey: "secret"}, sent.creds)
	assert.Equal(t, model.Message{
		Stream:  "defaultStream",
		Topic:   "defaultTopic",
		Content: "**Project: **TestJob : **Build: **#1: **SUCCESS** :check_mark:",
	}, sent.msg)
}

func TestPublishUsesJobOverrides(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})
	settings := testSettings()
	settings.Jobs = map[string]model.NotifierConfig{
		"TestJob": {Stream: "projectStream", Topic: "projectTopic"},
	}

	notifier.Publish(context.Background(), newRun(model.OutcomeSuccess), settings)

	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "projectStream", dispatcher.sent[0].msg.Stream)
	assert.Equal(t, "projectTopic", dispatcher.sent[0].msg.Topic)
}

func TestPublishSmartNotify(t *testing.T) {
	settings := testSettings()
	settings.SmartNotify = true

	cases := []struct {
		current  model.Outcome
		previous *model.Outcome
		want     Result
	}{
		{model.OutcomeSuccess, nil, ResultSent},
		{model.OutcomeFailure, nil, ResultSent},
		{model.OutcomeSuccess, outcomePtr(model.OutcomeFailure), ResultSent},
		{model.OutcomeFailure, outcomePtr(model.OutcomeFailure), ResultSent},
		{model.OutcomeSuccess, outcomePtr(model.OutcomeSuccess), ResultSuppressed},
		{model.OutcomeFailure, outcomePtr(model.OutcomeSuccess), ResultSent},
	}

	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})
	for _, c := range cases {
		run := newRun(c.current)
		run.previous = c.previous
		assert.Equal(t, c.want, notifier.Publish(context.Background(), run, settings))
	}
	assert.Len(t, dispatcher.sent, 5)
}

func TestPublishPreviousLookupErrorStillNotifies(t *testing.T) {
	settings := testSettings()
	settings.SmartNotify = true
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	run := newRun(model.OutcomeSuccess)
	run.previousErr = errors.New("db locked")

	assert.Equal(t, ResultSent, notifier.Publish(context.Background(), run, settings))
	assert.Len(t, dispatcher.sent, 1)
}

func TestPublishChangeLogFailureIsSoft(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	run := newRun(model.OutcomeSuccess)
	run.changesErr = errors.New("scm unreachable")

	assert.Equal(t, ResultSent, notifier.Publish(context.Background(), run, testSettings()))
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "**Project: **TestJob : **Build: **#1: **SUCCESS** :check_mark:\n\n"+
		"\nError determining changes since last build - please contact support@zulip.com.",
		dispatcher.sent[0].msg.Content)
}

func TestPublishChangeLogPanicIsSoft(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	run := newRun(model.OutcomeFailure)
	run.panicOn = "changes"

	assert.Equal(t, ResultSent, notifier.Publish(context.Background(), run, testSettings()))
	require.Len(t, dispatcher.sent, 1)
	assert.Contains(t, dispatcher.sent[0].msg.Content, "Error determining changes since last build")
}

func TestPublishNotComputedChanges(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	run := newRun(model.OutcomeSuccess)
	run.changes = model.NotComputedChanges()

	notifier.Publish(context.Background(), run, testSettings())
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, "**Project: **TestJob : **Build: **#1: **SUCCESS** :check_mark:\n\nCould not determine changes since last build.", dispatcher.sent[0].msg.Content)
}

func TestPublishDispatchFailureIsSwallowed(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("connection refused")}
	notifier := NewBuildNotifier(dispatcher, nopLogger{})

	assert.NotPanics(t, func() {
		result := notifier.Publish(context.Background(), newRun(model.OutcomeFailure), testSettings())
		assert.Equal(t, ResultFailed, result)
	})
	assert.Len(t, dispatcher.sent, 1)
}
