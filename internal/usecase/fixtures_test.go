package usecase

import (
	"context"
	"errors"
	"sync"

	"build-notifier/internal/domain/model"
)

func testBuild() model.BuildRef {
	return model.BuildRef{
		DisplayName: "#1",
		Path:        "job/TestJob/1",
		Number:      1,
		Project: model.ProjectRef{
			DisplayName: "TestJob",
			Path:        "job/TestJob",
		},
	}
}

func testSettings() model.Settings {
	return model.Settings{
		GlobalConfig: model.GlobalConfig{
			Zulip: model.ZulipCredentials{
				URL:    "zulipUrl",
				Email:  "jenkins-bot@zulip.com",
				APIKey: "secret",
			},
			Stream: "defaultStream",
			Topic:  "defaultTopic",
		},
	}
}

func outcomePtr(o model.Outcome) *model.Outcome {
	return &o
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}

type sentMessage struct {
	creds model.ZulipCredentials
	msg   model.Message
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (d *fakeDispatcher) Send(_ context.Context, creds model.ZulipCredentials, msg model.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMessage{creds: creds, msg: msg})
	return d.err
}

type fakeRun struct {
	build       model.BuildRef
	outcome     model.Outcome
	previous    *model.Outcome
	previousErr error
	changes     model.ChangeSet
	changesErr  error
	panicOn     string
}

func (r *fakeRun) Build() model.BuildRef  { return r.build }
func (r *fakeRun) Outcome() model.Outcome { return r.outcome }

func (r *fakeRun) Previous(context.Context) (*model.Outcome, error) {
	return r.previous, r.previousErr
}

func (r *fakeRun) ChangeSet(context.Context) (model.ChangeSet, error) {
	if r.panicOn == "changes" {
		panic(errors.New("changelog exploded"))
	}
	return r.changes, r.changesErr
}
