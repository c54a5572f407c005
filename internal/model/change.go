package model

// ChangeKind is the kind of a store change notification
type ChangeKind string

const (
	ChangeInserted ChangeKind = "inserted"
	ChangeUpdated  ChangeKind = "updated"
	ChangeDeleted  ChangeKind = "deleted"
)

// ChangeEvent describes one change to the project collection.
// Project is nil for deletions; ID is always set.
type ChangeEvent struct {
	Kind    ChangeKind
	ID      string
	Project *Project
}
