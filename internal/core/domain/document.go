package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentConflict = errors.New("document version conflict")
)

// Keys of the per-owner documents. They match the local storage keys the web
// client used before the data moved server side.
const (
	KeyTasks    = "learnify-tasks"
	KeyNotes    = "learnify-notes"
	KeySubjects = "learnify-subjects"
	KeySettings = "learnify-settings"
	KeyPlanner  = "learnify-planner"
	KeyFocus    = "learnify-focus"
	KeyGroups   = "learnify-groups"
	KeyGroup    = "learnify-group"
)

// Document is a JSON blob stored under (OwnerID, Key). It is always read and
// written whole.
type Document struct {
	OwnerID   string    `json:"owner_id"`
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DocumentStore interface {
	// Get returns ErrDocumentNotFound when nothing is stored under the key.
	Get(ctx context.Context, ownerID, key string) (*Document, error)

	// Put creates the document when doc.Version is 0, otherwise replaces it only
	// if the stored version still equals doc.Version. On success doc.Version is
	// the new stored version. A lost race returns ErrDocumentConflict.
	Put(ctx context.Context, doc *Document) error

	Delete(ctx context.Context, ownerID, key string) error
}
