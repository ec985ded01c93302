package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"build-notifier/internal/domain/model"
	"build-notifier/internal/domain/ports"
)

// buildEvent is the JSON body a build host posts when a build finishes.
type buildEvent struct {
	Project struct {
		Name string `json:"name"`
		Path string `json:"path"`
	} `json:"project"`
	Build struct {
		Name   string `json:"name"`
		Path   string `json:"path"`
		Number int64  `json:"number"`
		Result string `json:"result"`
	} `json:"build"`
	PreviousResult *string `json:"previous_result,omitempty"`
	// Changes is decoded lazily so a broken change log cannot reject the whole event.
	Changes json.RawMessage `json:"changes,omitempty"`
}

type changesPayload struct {
	Computed bool            `json:"computed"`
	Sets     [][]changeEntry `json:"sets"`
}

type changeEntry struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

func (e *buildEvent) validate() error {
	if e.Project.Name == "" {
		return errors.New("project.name is required")
	}
	if e.Build.Name == "" {
		return errors.New("build.name is required")
	}
	return nil
}

func (e *buildEvent) projectPath() string {
	if e.Project.Path != "" {
		return e.Project.Path
	}
	return e.Project.Name
}

// eventRun adapts a posted event to ports.Run, falling back to the history for the
// previous outcome when the host did not send one.
type eventRun struct {
	event   *buildEvent
	history ports.BuildHistory
}

var _ ports.Run = (*eventRun)(nil)

func (r *eventRun) Build() model.BuildRef {
	return model.BuildRef{
		DisplayName: r.event.Build.Name,
		Path:        r.event.Build.Path,
		Number:      r.event.Build.Number,
		Project: model.ProjectRef{
			DisplayName: r.event.Project.Name,
			Path:        r.event.Project.Path,
		},
	}
}

func (r *eventRun) Outcome() model.Outcome {
	return model.ParseOutcome(r.event.Build.Result)
}

func (r *eventRun) Previous(ctx context.Context) (*model.Outcome, error) {
	if r.event.PreviousResult != nil {
		prev := model.ParseOutcome(*r.event.PreviousResult)
		return &prev, nil
	}
	if r.history == nil || r.event.Build.Number <= 0 {
		return nil, nil
	}
	prev, ok, err := r.history.Previous(ctx, r.event.projectPath(), r.event.Build.Number)
	if err != nil || !ok {
		return nil, err
	}
	return &prev, nil
}

func (r *eventRun) ChangeSet(context.Context) (model.ChangeSet, error) {
	if len(r.event.Changes) == 0 || string(r.event.Changes) == "null" {
		return model.NotComputedChanges(), nil
	}
	var payload changesPayload
	if err := json.Unmarshal(r.event.Changes, &payload); err != nil {
		return model.ChangeSet{}, fmt.Errorf("decode changes: %w", err)
	}
	if !payload.Computed {
		return model.NotComputedChanges(), nil
	}
	groups := make([][]model.ChangeEntry, 0, len(payload.Sets))
	for _, set := range payload.Sets {
		group := make([]model.ChangeEntry, 0, len(set))
		for _, c := range set {
			group = append(group, model.ChangeEntry{Author: c.Author, Message: c.Message})
		}
		groups = append(groups, group)
	}
	return model.ChangesFrom(groups...), nil
}
