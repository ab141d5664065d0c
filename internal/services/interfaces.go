package services

import (
	"context"
	"time"

	"github.com/tropicaldog17/rwa/internal/models"
)

// DocumentService defines the interface for portfolio document business logic
type DocumentService interface {
	CreateDocument(ctx context.Context, name string, initial *models.State) (*models.Document, error)
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.DocumentSummary, error)
	ApplyOperation(ctx context.Context, id string, op models.Operation) (*models.Document, error)
	ListOperations(ctx context.Context, id string) ([]*models.OperationRecord, error)
	Undo(ctx context.Context, id string) (*models.Document, error)
	CurrentValues(ctx context.Context, id string, at time.Time) ([]models.AssetValue, error)
}
