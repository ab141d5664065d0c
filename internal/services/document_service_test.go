package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/repositories"
	"go.uber.org/zap"
)

func rawOp(t models.OperationType, input string) models.Operation {
	return models.Operation{Type: t, Input: json.RawMessage(input)}
}

// treasuryBillOps funds the portfolio with 1000 and buys 100 of a bill
// maturing 2023-01-11 for 90 on 2023-01-01.
var treasuryBillOps = []models.Operation{
	rawOp(models.OpCreateAccount, `{"id":"lender","reference":"0xlender"}`),
	rawOp(models.OpCreateSPV, `{"id":"spv","name":"SPV One"}`),
	rawOp(models.OpCreateFixedIncomeType, `{"id":"tb","name":"Treasury Bill"}`),
	rawOp(models.OpCreateCashAsset, `{"id":"cash","spvId":"spv","currency":"USD"}`),
	rawOp(models.OpCreateFixedIncomeAsset, `{"id":"tbill","name":"T-Bill Jan 11","spvId":"spv","fixedIncomeTypeId":"tb","maturity":"2023-01-11T00:00:00Z"}`),
	rawOp(models.OpCreateGroupTransaction, `{
		"type":"PrincipalDraw","entryTime":"2022-12-31T00:00:00Z",
		"cashTransaction":{"assetType":"Cash","assetId":"cash","amount":"1000","counterPartyAccountId":"lender"}
	}`),
	rawOp(models.OpCreateGroupTransaction, `{
		"id":"buy","type":"AssetPurchase","entryTime":"2023-01-01T00:00:00Z",
		"cashTransaction":{"assetType":"Cash","assetId":"cash","amount":"90","counterPartyAccountId":"lender"},
		"fixedIncomeTransaction":{"assetType":"FixedIncome","assetId":"tbill","amount":"100"}
	}`),
}

func newTestService(t *testing.T) (DocumentService, *mockDocumentRepo, *models.Document) {
	t.Helper()
	repo := newMockDocumentRepo()
	svc := NewDocumentService(repo, zap.NewNop(), time.Minute)
	initial := models.NewState("lender")
	doc, err := svc.CreateDocument(context.Background(), "Fund I", &initial)
	require.NoError(t, err)
	return svc, repo, doc
}

func cashBalanceOf(t *testing.T, doc *models.Document) decimal.Decimal {
	t.Helper()
	cash, _ := doc.State.CashAsset()
	require.NotNil(t, cash)
	return cash.Balance
}

func TestDocumentService_CreateDocument(t *testing.T) {
	svc, _, doc := newTestService(t)
	require.NotEmpty(t, doc.ID)
	require.Equal(t, "lender", doc.State.PrincipalLenderAccountID)

	_, err := svc.CreateDocument(context.Background(), "  ", nil)
	require.ErrorIs(t, err, apperrors.ErrMissingField)

	broken := models.NewState("lender")
	broken.SPVs = []models.SPV{{ID: "dup"}, {ID: "dup"}}
	_, err = svc.CreateDocument(context.Background(), "Broken", &broken)
	require.ErrorIs(t, err, apperrors.ErrDomainRule)
}

func TestDocumentService_ApplyOperations(t *testing.T) {
	svc, repo, doc := newTestService(t)
	ctx := context.Background()

	var err error
	for _, op := range treasuryBillOps {
		doc, err = svc.ApplyOperation(ctx, doc.ID, op)
		require.NoError(t, err, "applying %s", op.Type)
	}
	require.Equal(t, len(treasuryBillOps), doc.Revision)
	require.True(t, cashBalanceOf(t, doc).Equal(decimal.NewFromInt(910)))

	t.Run("missing ids are filled", func(t *testing.T) {
		draw := doc.State.Transactions[0]
		require.NotEmpty(t, draw.ID)
		require.NotEmpty(t, draw.CashTransaction.ID)

		ops, err := svc.ListOperations(ctx, doc.ID)
		require.NoError(t, err)
		require.Len(t, ops, len(treasuryBillOps))
		require.Contains(t, string(ops[5].Input), draw.ID)
	})

	t.Run("rejected operation leaves document untouched", func(t *testing.T) {
		before := len(repo.ops[doc.ID])
		_, err := svc.ApplyOperation(ctx, doc.ID, rawOp(models.OpDeleteSPV, `{"id":"spv"}`))
		require.ErrorIs(t, err, apperrors.ErrDependency)
		require.Len(t, repo.ops[doc.ID], before)

		got, err := svc.GetDocument(ctx, doc.ID)
		require.NoError(t, err)
		require.Equal(t, doc.Revision, got.Revision)
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := svc.ApplyOperation(ctx, doc.ID, rawOp(models.OpCreateSPV, `{"id":`))
		require.ErrorIs(t, err, apperrors.ErrMalformed)
	})

	t.Run("current values", func(t *testing.T) {
		values, err := svc.CurrentValues(ctx, doc.ID, time.Date(2023, 1, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, values, 1)
		require.NotNil(t, values[0].CurrentValue)
		require.True(t, values[0].CurrentValue.Equal(decimal.NewFromInt(95)))
	})
}

func TestDocumentService_Undo(t *testing.T) {
	svc, _, doc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Undo(ctx, doc.ID)
	require.ErrorIs(t, err, apperrors.ErrDomainRule)

	for _, op := range treasuryBillOps {
		doc, err = svc.ApplyOperation(ctx, doc.ID, op)
		require.NoError(t, err)
	}

	undone, err := svc.Undo(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, undone.State.Transactions, 1)
	require.True(t, cashBalanceOf(t, undone).Equal(decimal.NewFromInt(1000)))
	require.Empty(t, undone.State.FixedIncomeAsset("tbill").PurchaseDate)

	ops, err := svc.ListOperations(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, ops, len(treasuryBillOps)-1)
}

func TestDocumentService_CachesLatestState(t *testing.T) {
	svc, repo, doc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	_, err = svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, 0, repo.getCalls)

	// callers get private copies
	got, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	got.State.SPVs = append(got.State.SPVs, models.SPV{ID: "tampered"})
	again, err := svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Empty(t, again.State.SPVs)
}

func TestDocumentService_ConflictDropsCache(t *testing.T) {
	svc, repo, doc := newTestService(t)
	ctx := context.Background()

	repo.forceConflict = true
	_, err := svc.ApplyOperation(ctx, doc.ID, treasuryBillOps[0])
	require.True(t, errors.Is(err, repositories.ErrConflict))

	_, err = svc.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getCalls)
}

func TestDocumentService_UnknownDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetDocument(context.Background(), "missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestFillMissingIDs(t *testing.T) {
	tests := []struct {
		name    string
		opType  models.OperationType
		input   string
		check   func(t *testing.T, m map[string]any)
		unknown bool
	}{
		{
			name:   "keeps given id",
			opType: models.OpCreateSPV,
			input:  `{"id":"spv","name":"x"}`,
			check: func(t *testing.T, m map[string]any) {
				require.Equal(t, "spv", m["id"])
			},
		},
		{
			name:   "fills fee ids on add",
			opType: models.OpAddFeesToGroupTransaction,
			input:  `{"id":"tx","fees":[{"amount":"1.10","serviceProviderFeeTypeId":"b"}]}`,
			check: func(t *testing.T, m map[string]any) {
				require.Equal(t, "tx", m["id"])
				fee := m["fees"].([]any)[0].(map[string]any)
				require.NotEmpty(t, fee["id"])
				require.Equal(t, "1.10", fee["amount"])
			},
		},
		{
			name:   "keeps number precision",
			opType: models.OpCreateFixedIncomeAsset,
			input:  `{"name":"x","coupon":0.12345678901234567890}`,
			check: func(t *testing.T, m map[string]any) {
				require.NotEmpty(t, m["id"])
				require.Equal(t, json.Number("0.12345678901234567890"), m["coupon"])
			},
		},
		{
			name:    "edits untouched",
			opType:  models.OpEditSPV,
			input:   `{"name":"x"}`,
			unknown: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := fillMissingIDs(tt.opType, json.RawMessage(tt.input))
			require.NoError(t, err)
			if tt.unknown {
				require.Equal(t, tt.input, string(out))
				return
			}
			dec := json.NewDecoder(bytes.NewReader(out))
			dec.UseNumber()
			var m map[string]any
			require.NoError(t, dec.Decode(&m))
			tt.check(t, m)
		})
	}
}
