package ledger

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func op(t models.OperationType, input any) models.Operation {
	return models.MustOperation(t, input)
}

func mustApply(t *testing.T, s models.State, ops ...models.Operation) models.State {
	t.Helper()
	for _, o := range ops {
		var err error
		s, err = Apply(s, o)
		require.NoError(t, err, "applying %s", o.Type)
	}
	return s
}

func stateJSON(t *testing.T, s models.State) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func cashLeg(id, amount string) models.BaseTransaction {
	return models.BaseTransaction{
		ID:                    id,
		AssetType:             models.AssetTypeCash,
		AssetID:               "cash",
		Amount:                dec(amount),
		CounterPartyAccountID: ptr("lender"),
	}
}

func fixedIncomeLeg(id, assetID, qty string) *models.BaseTransaction {
	return &models.BaseTransaction{
		ID:        id,
		AssetType: models.AssetTypeFixedIncome,
		AssetID:   assetID,
		Amount:    dec(qty),
	}
}

func purchaseInput() models.CreateGroupTransactionInput {
	return models.CreateGroupTransactionInput{
		ID:        "buy",
		Type:      models.AssetPurchase,
		EntryTime: "2024-01-02T00:00:00Z",
		Fees: []models.TransactionFee{
			{ID: "fee1", ServiceProviderFeeTypeID: "broker", Amount: dec("1")},
		},
		CashTransaction:        cashLeg("buy-cash", "95"),
		FixedIncomeTransaction: fixedIncomeLeg("buy-fi", "tbill", "100"),
	}
}

// baseState holds reference data, a cash asset funded with a 1000 draw and
// an empty treasury bill.
func baseState(t *testing.T) models.State {
	t.Helper()
	return mustApply(t, models.NewState("lender"),
		op(models.OpCreateAccount, models.CreateAccountInput{ID: "lender", Reference: "0xlender"}),
		op(models.OpCreateAccount, models.CreateAccountInput{ID: "custodian", Reference: "0xcustodian", Label: ptr("Custodian")}),
		op(models.OpCreateSPV, models.CreateSPVInput{ID: "spv", Name: "SPV One"}),
		op(models.OpCreateFixedIncomeType, models.CreateFixedIncomeTypeInput{ID: "tb", Name: models.TreasuryBillTypeName}),
		op(models.OpCreateServiceProviderFeeType, models.CreateServiceProviderFeeTypeInput{ID: "broker", Name: "Broker", FeeType: "Trading", AccountID: "custodian"}),
		op(models.OpCreateCashAsset, models.CreateCashAssetInput{ID: "cash", SPVID: "spv", Currency: "USD"}),
		op(models.OpCreateFixedIncomeAsset, models.CreateFixedIncomeAssetInput{
			ID: "tbill", Name: "T-Bill 2024-06", SPVID: "spv", FixedIncomeTypeID: "tb", Maturity: ptr("2024-06-30T00:00:00Z"),
		}),
		op(models.OpCreateGroupTransaction, models.CreateGroupTransactionInput{
			ID:              "draw",
			Type:            models.PrincipalDraw,
			EntryTime:       "2024-01-01T00:00:00Z",
			CashTransaction: cashLeg("draw-cash", "1000"),
		}),
	)
}

func cashBalance(t *testing.T, s models.State) decimal.Decimal {
	t.Helper()
	cash, _ := s.CashAsset()
	require.NotNil(t, cash)
	return cash.Balance
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

func TestApply_UnknownOperation(t *testing.T) {
	s := baseState(t)
	before := stateJSON(t, s)

	next, err := Apply(s, models.Operation{Type: "create_spv", Input: json.RawMessage(`{"id":"x","name":"y"}`)})
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrMalformed))
	require.Equal(t, before, stateJSON(t, next))
	require.False(t, Supported("create_spv"))
	require.True(t, Supported(models.OpCreateSPV))
}

func TestApply_MalformedInput(t *testing.T) {
	s := baseState(t)

	_, err := Apply(s, models.Operation{Type: models.OpCreateSPV, Input: json.RawMessage(`{"id": 7}`)})
	require.True(t, errors.Is(err, apperrors.ErrMalformed))

	_, err = Apply(s, models.Operation{Type: models.OpCreateSPV})
	require.True(t, errors.Is(err, apperrors.ErrMalformed))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s := baseState(t)
	before := stateJSON(t, s)

	next, err := Apply(s, op(models.OpCreateGroupTransaction, purchaseInput()))
	require.NoError(t, err)
	require.Equal(t, before, stateJSON(t, s))
	require.NotEqual(t, before, stateJSON(t, next))

	next, err = Apply(next, op(models.OpEditSPV, models.EditSPVInput{ID: "spv", Name: ptr("Renamed")}))
	require.NoError(t, err)
	require.Equal(t, "SPV One", s.SPVs[0].Name)
	require.Equal(t, "Renamed", next.SPVs[0].Name)
}

func TestApply_TypedFunctionsMatchApply(t *testing.T) {
	s := baseState(t)

	viaApply := mustApply(t, s, op(models.OpCreateGroupTransaction, purchaseInput()))
	viaTyped, err := CreateGroupTransaction(s, purchaseInput())
	require.NoError(t, err)
	require.JSONEq(t, stateJSON(t, viaApply), stateJSON(t, viaTyped))
}

func TestState_JSONRoundTripKeepsAssetKinds(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, purchaseInput()))

	var decoded models.State
	require.NoError(t, json.Unmarshal([]byte(stateJSON(t, s)), &decoded))
	require.IsType(t, &models.Cash{}, decoded.Portfolio[0])
	require.IsType(t, &models.FixedIncome{}, decoded.Portfolio[1])
	require.NoError(t, CheckInvariants(decoded))
}
