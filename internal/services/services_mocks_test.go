package services

import (
	"context"
	"encoding/json"

	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/repositories"
)

// ---- In-memory document repository used in unit tests ----

type mockDocumentRepo struct {
	docs     map[string]models.Document
	ops      map[string][]*models.OperationRecord
	getCalls int
	// forceConflict makes the next write fail with ErrConflict.
	forceConflict bool
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{
		docs: map[string]models.Document{},
		ops:  map[string][]*models.OperationRecord{},
	}
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	b, err := json.Marshal(doc.State)
	if err != nil {
		return err
	}
	doc.StateJSON = string(b)
	if doc.InitialStateJSON == "" {
		doc.InitialStateJSON = doc.StateJSON
	}
	m.docs[doc.ID] = *doc
	return nil
}

func (m *mockDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	m.getCalls++
	doc, ok := m.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	doc.State = doc.State.Clone()
	return &doc, nil
}

func (m *mockDocumentRepo) List(ctx context.Context) ([]*models.DocumentSummary, error) {
	var out []*models.DocumentSummary
	for _, d := range m.docs {
		out = append(out, &models.DocumentSummary{ID: d.ID, Name: d.Name, Revision: d.Revision})
	}
	return out, nil
}

func (m *mockDocumentRepo) write(doc *models.Document, expectedRevision int) error {
	stored, ok := m.docs[doc.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if m.forceConflict || stored.Revision != expectedRevision {
		m.forceConflict = false
		return repositories.ErrConflict
	}
	doc.Revision = expectedRevision + 1
	stored.State = doc.State.Clone()
	stored.Revision = doc.Revision
	m.docs[doc.ID] = stored
	return nil
}

func (m *mockDocumentRepo) AppendOperation(ctx context.Context, doc *models.Document, expectedRevision int, rec *models.OperationRecord) error {
	if err := m.write(doc, expectedRevision); err != nil {
		return err
	}
	rec.DocumentID = doc.ID
	rec.Index = len(m.ops[doc.ID])
	m.ops[doc.ID] = append(m.ops[doc.ID], rec)
	return nil
}

func (m *mockDocumentRepo) ListOperations(ctx context.Context, documentID string) ([]*models.OperationRecord, error) {
	return append([]*models.OperationRecord(nil), m.ops[documentID]...), nil
}

func (m *mockDocumentRepo) Rewind(ctx context.Context, doc *models.Document, expectedRevision int, keep int) error {
	if err := m.write(doc, expectedRevision); err != nil {
		return err
	}
	if keep < len(m.ops[doc.ID]) {
		m.ops[doc.ID] = m.ops[doc.ID][:keep]
	}
	return nil
}

// compile-time check that the mock satisfies the interface
var _ repositories.DocumentRepository = (*mockDocumentRepo)(nil)
