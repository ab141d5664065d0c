package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/ledger"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/repositories"
	"github.com/tropicaldog17/rwa/internal/valuation"
	"go.uber.org/zap"
)

type documentService struct {
	repo   repositories.DocumentRepository
	cache  *cache.Cache
	logger *zap.Logger

	locks sync.Map // document id -> *sync.Mutex
}

// NewDocumentService creates a document service caching latest states for ttl.
func NewDocumentService(repo repositories.DocumentRepository, logger *zap.Logger, ttl time.Duration) DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &documentService{
		repo:   repo,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (s *documentService) lock(id string) func() {
	m, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *documentService) CreateDocument(ctx context.Context, name string, initial *models.State) (*models.Document, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Missing("name", "Missing required fields: name")
	}
	state := models.NewState("")
	if initial != nil {
		state = initial.Clone()
	}
	if err := ledger.CheckInvariants(state); err != nil {
		return nil, apperrors.Rule("state", "Initial state is inconsistent: %v", err)
	}

	doc := &models.Document{ID: uuid.NewString(), Name: name, State: state}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.logger.Info("document created", zap.String("document_id", doc.ID), zap.String("name", name))
	s.remember(doc)
	return s.copyOf(doc), nil
}

func (s *documentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.copyOf(doc), nil
}

func (s *documentService) ListDocuments(ctx context.Context) ([]*models.DocumentSummary, error) {
	return s.repo.List(ctx)
}

func (s *documentService) ApplyOperation(ctx context.Context, id string, op models.Operation) (*models.Document, error) {
	unlock := s.lock(id)
	defer unlock()

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	op.Input, err = fillMissingIDs(op.Type, op.Input)
	if err != nil {
		return nil, apperrors.Malformed("Invalid input for %s: %v", op.Type, err)
	}

	next, err := ledger.Apply(doc.State, op)
	if err != nil {
		s.logger.Warn("operation rejected",
			zap.String("document_id", id),
			zap.String("operation", string(op.Type)),
			zap.Int("revision", doc.Revision),
			zap.Error(err))
		return nil, err
	}

	updated := *doc
	updated.State = next
	rec := &models.OperationRecord{ID: uuid.NewString(), Type: op.Type, Input: op.Input}
	if err := s.repo.AppendOperation(ctx, &updated, doc.Revision, rec); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			s.cache.Delete(id)
		}
		return nil, err
	}

	s.logger.Info("operation applied",
		zap.String("document_id", id),
		zap.String("operation", string(op.Type)),
		zap.Int("revision", updated.Revision))
	s.remember(&updated)
	return s.copyOf(&updated), nil
}

func (s *documentService) ListOperations(ctx context.Context, id string) ([]*models.OperationRecord, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListOperations(ctx, id)
}

// Undo rebuilds the state by replaying every logged operation but the last
// from the initial state.
func (s *documentService) Undo(ctx context.Context, id string) (*models.Document, error) {
	unlock := s.lock(id)
	defer unlock()

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ops, err := s.repo.ListOperations(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, apperrors.Rule("", "Nothing to undo")
	}

	var state models.State
	if err := json.Unmarshal([]byte(doc.InitialStateJSON), &state); err != nil {
		return nil, fmt.Errorf("failed to decode initial state: %w", err)
	}
	keep := len(ops) - 1
	for _, rec := range ops[:keep] {
		state, err = ledger.Apply(state, models.Operation{Type: rec.Type, Input: rec.Input})
		if err != nil {
			return nil, fmt.Errorf("failed to replay operation %d (%s): %w", rec.Index, rec.Type, err)
		}
	}

	updated := *doc
	updated.State = state
	if err := s.repo.Rewind(ctx, &updated, doc.Revision, keep); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			s.cache.Delete(id)
		}
		return nil, err
	}

	s.logger.Info("operation undone",
		zap.String("document_id", id),
		zap.String("operation", string(ops[keep].Type)),
		zap.Int("revision", updated.Revision))
	s.remember(&updated)
	return s.copyOf(&updated), nil
}

func (s *documentService) CurrentValues(ctx context.Context, id string, at time.Time) ([]models.AssetValue, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return valuation.CurrentValues(doc.State, at), nil
}

func (s *documentService) load(ctx context.Context, id string) (*models.Document, error) {
	if v, ok := s.cache.Get(id); ok {
		return v.(*models.Document), nil
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(doc)
	return doc, nil
}

func (s *documentService) remember(doc *models.Document) {
	s.cache.SetDefault(doc.ID, doc)
}

// copyOf hands out a document whose state the caller may modify freely.
func (s *documentService) copyOf(doc *models.Document) *models.Document {
	out := *doc
	out.State = doc.State.Clone()
	return &out
}

// fillMissingIDs assigns uuids to entity, leg and fee ids a create-style
// operation left empty.
func fillMissingIDs(t models.OperationType, raw json.RawMessage) (json.RawMessage, error) {
	isCreate := strings.HasPrefix(string(t), "CREATE_")
	if !isCreate && t != models.OpAddFeesToGroupTransaction {
		return raw, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return raw, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return nil, err
	}
	if input == nil {
		return raw, nil
	}

	if isCreate {
		setMissingID(input)
	}
	if t == models.OpCreateGroupTransaction {
		for _, leg := range []string{"cashTransaction", "fixedIncomeTransaction"} {
			if m, ok := input[leg].(map[string]any); ok {
				setMissingID(m)
			}
		}
	}
	if fees, ok := input["fees"].([]any); ok {
		for _, f := range fees {
			if m, ok := f.(map[string]any); ok {
				setMissingID(m)
			}
		}
	}
	return json.Marshal(input)
}

func setMissingID(m map[string]any) {
	if id, _ := m["id"].(string); id == "" {
		m["id"] = uuid.NewString()
	}
}
