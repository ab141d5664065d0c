package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tropicaldog17/rwa/internal/db"
	"github.com/tropicaldog17/rwa/internal/models"
	"gorm.io/gorm"
)

// operationRow is the document_operations table row.
type operationRow struct {
	ID         string    `gorm:"primaryKey;column:id"`
	DocumentID string    `gorm:"column:document_id"`
	Idx        int       `gorm:"column:idx"`
	Type       string    `gorm:"column:type"`
	Input      string    `gorm:"column:input"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (operationRow) TableName() string {
	return "document_operations"
}

func (r operationRow) record() *models.OperationRecord {
	return &models.OperationRecord{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		Index:      r.Idx,
		Type:       models.OperationType(r.Type),
		Input:      json.RawMessage(r.Input),
		CreatedAt:  r.CreatedAt,
	}
}

type documentRepository struct {
	db *db.DB
}

// NewDocumentRepository creates a gorm-backed document repository
func NewDocumentRepository(database *db.DB) DocumentRepository {
	return &documentRepository{db: database}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	state, err := json.Marshal(doc.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	doc.StateJSON = string(state)
	if doc.InitialStateJSON == "" {
		doc.InitialStateJSON = doc.StateJSON
	}
	now := time.Now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if err := json.Unmarshal([]byte(doc.StateJSON), &doc.State); err != nil {
		return nil, fmt.Errorf("failed to decode state of document %s: %w", id, err)
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context) ([]*models.DocumentSummary, error) {
	var list []*models.DocumentSummary
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Select("id, name, revision, updated_at").
		Order("updated_at DESC, id").
		Scan(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return list, nil
}

func (r *documentRepository) AppendOperation(ctx context.Context, doc *models.Document, expectedRevision int, rec *models.OperationRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateState(tx, doc, expectedRevision); err != nil {
			return err
		}

		var next int
		if err := tx.Model(&operationRow{}).
			Select("COALESCE(MAX(idx), -1) + 1").
			Where("document_id = ?", doc.ID).
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to get next operation index: %w", err)
		}

		row := operationRow{
			ID:         rec.ID,
			DocumentID: doc.ID,
			Idx:        next,
			Type:       string(rec.Type),
			Input:      string(rec.Input),
			CreatedAt:  doc.UpdatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to append operation: %w", err)
		}
		rec.DocumentID = doc.ID
		rec.Index = next
		rec.CreatedAt = row.CreatedAt
		return nil
	})
}

func (r *documentRepository) ListOperations(ctx context.Context, documentID string) ([]*models.OperationRecord, error) {
	var rows []operationRow
	if err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("idx").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	list := make([]*models.OperationRecord, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.record())
	}
	return list, nil
}

func (r *documentRepository) Rewind(ctx context.Context, doc *models.Document, expectedRevision int, keep int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateState(tx, doc, expectedRevision); err != nil {
			return err
		}
		if err := tx.Where("document_id = ? AND idx >= ?", doc.ID, keep).
			Delete(&operationRow{}).Error; err != nil {
			return fmt.Errorf("failed to drop operations: %w", err)
		}
		return nil
	})
}

// updateState writes doc.State under the optimistic revision check and bumps
// doc.Revision on success.
func (r *documentRepository) updateState(tx *gorm.DB, doc *models.Document, expectedRevision int) error {
	state, err := json.Marshal(doc.State)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	now := time.Now().UTC()
	res := tx.Model(&models.Document{}).
		Where("id = ? AND revision = ?", doc.ID, expectedRevision).
		UpdateColumns(map[string]interface{}{
			"state":      string(state),
			"revision":   expectedRevision + 1,
			"updated_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Document{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check document: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	doc.StateJSON = string(state)
	doc.Revision = expectedRevision + 1
	doc.UpdatedAt = now
	return nil
}
