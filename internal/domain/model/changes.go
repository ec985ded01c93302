package model

// ChangeEntry is one change-log record.
type ChangeEntry struct {
	Author  string
	Message string
}

// ChangeState tells whether the host could compute the changes of a build.
type ChangeState int

const (
	ChangesNotComputed ChangeState = iota
	ChangesEmpty
	ChangesPresent
)

// ChangeSet holds the changes since the previous build.
// Entries is only populated when State is ChangesPresent.
type ChangeSet struct {
	State   ChangeState
	Entries []ChangeEntry
}

// NotComputedChanges is used when the host cannot tell whether changes exist.
func NotComputedChanges() ChangeSet {
	return ChangeSet{State: ChangesNotComputed}
}

// EmptyChanges is used when the host found no changes.
func EmptyChanges() ChangeSet {
	return ChangeSet{State: ChangesEmpty}
}

// ChangesFrom flattens grouped change logs in order.
func ChangesFrom(groups ...[]ChangeEntry) ChangeSet {
	var entries []ChangeEntry
	for _, group := range groups {
		entries = append(entries, group...)
	}
	if len(entries) == 0 {
		return EmptyChanges()
	}
	return ChangeSet{State: ChangesPresent, Entries: entries}
}
