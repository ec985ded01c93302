package usecase

import (
	"strings"

	"build-notifier/internal/domain/model"
)

const (
	glyphSuccess = ":check_mark:"
	glyphFailure = ":x:"
)

// Candidate yields one possible value for a destination field.
type Candidate func() string

// FirstSet returns the first non-blank candidate, or "" when all are blank.
// Whitespace is not trimmed: a single space counts as configured.
func FirstSet(candidates ...Candidate) string {
	for _, candidate := range candidates {
		if v := candidate(); v != "" {
			return v
		}
	}
	return ""
}

func value(v string) Candidate {
	return func() string { return v }
}

// ConfiguredTopic is the topic set on the job or globally, before the project-name fallback.
func ConfiguredTopic(job model.NotifierConfig, global model.GlobalConfig) string {
	return FirstSet(value(job.Topic), value(global.Topic))
}

// ResolveTopic returns the destination topic for a build of project.
func ResolveTopic(project model.ProjectRef, job model.NotifierConfig, global model.GlobalConfig) string {
	return FirstSet(value(job.Topic), value(global.Topic), value(project.DisplayName))
}

// ResolveStream returns the destination stream.
func ResolveStream(job model.NotifierConfig, global model.GlobalConfig) string {
	return FirstSet(value(job.Stream), value(global.Stream))
}

// Compose builds the message for a finished build and resolves where it goes.
func Compose(build model.BuildRef, outcome model.Outcome, changes string, job model.NotifierConfig, global model.GlobalConfig) model.Message {
	outcome = outcome.Effective()

	var builder strings.Builder
	// A fixed topic collects several projects, so the message has to name the project.
	if ConfiguredTopic(job, global) != "" {
		builder.WriteString(hostLink("Project: ", build.Project.DisplayName, build.Project.Path, global.HostURL))
		builder.WriteString(" : ")
	}
	builder.WriteString(hostLink("Build: ", build.DisplayName, build.Path, global.HostURL))
	builder.WriteString(": ")
	builder.WriteString("**" + string(outcome) + "**")
	if outcome == model.OutcomeSuccess {
		builder.WriteString(" " + glyphSuccess)
	} else {
		builder.WriteString(" " + glyphFailure)
	}
	if changes != "" {
		builder.WriteString("\n\n")
		builder.WriteString(changes)
	}

	return model.Message{
		Stream:  ResolveStream(job, global),
		Topic:   ResolveTopic(build.Project, job, global),
		Content: builder.String(),
	}
}

// hostLink renders a bold label followed by display, linked to the host when a base URL is set.
func hostLink(label, display, path, hostURL string) string {
	text := display
	if hostURL != "" {
		text = "[" + display + "](" + joinURL(hostURL, path) + ")"
	}
	return "**" + label + "**" + text
}

func joinURL(base, path string) string {
	if path == "" || strings.HasSuffix(base, "/") || strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}
