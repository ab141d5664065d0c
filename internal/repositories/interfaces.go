package repositories

import (
	"context"
	"errors"

	"github.com/tropicaldog17/rwa/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when the stored revision moved since the caller read it.
	ErrConflict = errors.New("document revision conflict")
)

// DocumentRepository defines the interface for document data operations
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context) ([]*models.DocumentSummary, error)
	// AppendOperation stores doc.State as the new latest state and appends rec
	// to the log, provided the stored revision still equals expectedRevision.
	AppendOperation(ctx context.Context, doc *models.Document, expectedRevision int, rec *models.OperationRecord) error
	ListOperations(ctx context.Context, documentID string) ([]*models.OperationRecord, error)
	// Rewind stores doc.State and drops every logged operation at index keep or later.
	Rewind(ctx context.Context, doc *models.Document, expectedRevision int, keep int) error
}
