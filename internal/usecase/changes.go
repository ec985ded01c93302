package usecase

import (
	"strings"

	"build-notifier/internal/domain/model"
)

const (
	changesUnknownText = "Could not determine changes since last build."
	changesHeader      = "Changes since last build:\n"
	changesErrorNotice = "\nError determining changes since last build - please contact support@zulip.com."

	maxCommitMessage = 46
)

// SummarizeChanges renders the change log of a build.
// An empty result means the message should carry no changelog section.
func SummarizeChanges(cs model.ChangeSet) string {
	if cs.State == model.ChangesNotComputed {
		return changesUnknownText
	}
	if cs.State != model.ChangesPresent || len(cs.Entries) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(changesHeader)
	for _, entry := range cs.Entries {
		builder.WriteString("\n* `")
		builder.WriteString(entry.Author)
		builder.WriteString("` ")
		builder.WriteString(truncateCommit(strings.TrimSpace(entry.Message)))
	}
	return builder.String()
}

func truncateCommit(msg string) string {
	runes := []rune(msg)
	if len(runes) <= maxCommitMessage {
		return msg
	}
	return string(runes[:maxCommitMessage]) + "..."
}
