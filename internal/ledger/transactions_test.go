package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

func TestCreateGroupTransaction_Purchase(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, purchaseInput()))

	requireDecimal(t, "904", cashBalance(t, s))

	i, ok := s.FindTransaction("buy")
	require.True(t, ok)
	tx := s.Transactions[i]
	requireDecimal(t, "-96", tx.CashBalanceChange)
	require.NotNil(t, tx.UnitPrice)
	requireDecimal(t, "0.95", *tx.UnitPrice)
	require.Equal(t, "2024-01-02T00:00:00Z", tx.CashTransaction.EntryTime)
	require.Equal(t, "2024-01-02T00:00:00Z", tx.FixedIncomeTransaction.EntryTime)

	asset := s.FixedIncomeAsset("tbill")
	require.Equal(t, "2024-01-02T00:00:00.000Z", asset.PurchaseDate)
	requireDecimal(t, "96", asset.PurchaseProceeds)
	requireDecimal(t, "0.95", asset.PurchasePrice)
	requireDecimal(t, "95", asset.Notional)
	requireDecimal(t, "-1", asset.TotalDiscount)
	requireDecimal(t, "-95", asset.AssetProceeds)

	require.NoError(t, CheckInvariants(s))
}

func TestCreateGroupTransaction_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *models.CreateGroupTransactionInput)
		kind   error
		msg    string
	}{
		{
			name:   "missing id",
			mutate: func(in *models.CreateGroupTransactionInput) { in.ID = "" },
			kind:   apperrors.ErrMissingField,
			msg:    "Group transaction must have an id",
		},
		{
			name:   "duplicate id",
			mutate: func(in *models.CreateGroupTransactionInput) { in.ID = "draw" },
			kind:   apperrors.ErrDuplicate,
		},
		{
			name:   "missing type",
			mutate: func(in *models.CreateGroupTransactionInput) { in.Type = "" },
			kind:   apperrors.ErrMissingField,
			msg:    "Missing required fields: transactionType",
		},
		{
			name: "wrong counterparty",
			mutate: func(in *models.CreateGroupTransactionInput) {
				in.CashTransaction.CounterPartyAccountID = ptr("custodian")
			},
			kind: apperrors.ErrDomainRule,
			msg:  "Cash transaction must have the principal lender as the counter party",
		},
		{
			name: "fees on a fees transaction",
			mutate: func(in *models.CreateGroupTransactionInput) {
				in.Type = models.FeesPayment
				in.FixedIncomeTransaction = nil
			},
			kind: apperrors.ErrDomainRule,
		},
		{
			name:   "zero quantity",
			mutate: func(in *models.CreateGroupTransactionInput) { in.FixedIncomeTransaction.Amount = dec("0") },
			kind:   apperrors.ErrMissingField,
			msg:    "Transaction must have an amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseState(t)
			before := stateJSON(t, s)

			in := purchaseInput()
			tt.mutate(&in)
			next, err := Apply(s, op(models.OpCreateGroupTransaction, in))
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.kind), "unexpected error %v", err)
			if tt.msg != "" {
				require.Equal(t, tt.msg, err.Error())
			}
			require.Equal(t, before, stateJSON(t, next))
		})
	}
}

func TestCreateThenDeleteIsIdentity(t *testing.T) {
	s := baseState(t)
	before := stateJSON(t, s)

	s = mustApply(t, s,
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpDeleteGroupTransaction, models.DeleteInput{ID: "buy"}),
	)
	require.JSONEq(t, before, stateJSON(t, s))
}

func TestDeleteGroupTransaction_Unknown(t *testing.T) {
	_, err := Apply(baseState(t), op(models.OpDeleteGroupTransaction, models.DeleteInput{ID: "ghost"}))
	require.True(t, errors.Is(err, apperrors.ErrReference))
	require.Equal(t, "Transaction does not exist", err.Error())
}

func TestEditGroupTransaction_Amounts(t *testing.T) {
	s := mustApply(t, baseState(t),
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
			ID:                     "buy",
			CashTransaction:        &models.EditBaseTransactionInput{Amount: ptr(dec("90"))},
			FixedIncomeTransaction: &models.EditBaseTransactionInput{Amount: ptr(dec("120"))},
		}),
	)

	requireDecimal(t, "909", cashBalance(t, s))
	i, _ := s.FindTransaction("buy")
	requireDecimal(t, "-91", s.Transactions[i].CashBalanceChange)
	requireDecimal(t, "0.75", *s.Transactions[i].UnitPrice)

	asset := s.FixedIncomeAsset("tbill")
	requireDecimal(t, "91", asset.PurchaseProceeds)
	requireDecimal(t, "90", asset.Notional)
	require.NoError(t, CheckInvariants(s))
}

func TestEditGroupTransaction_MovesAsset(t *testing.T) {
	s := mustApply(t, baseState(t),
		op(models.OpCreateFixedIncomeAsset, models.CreateFixedIncomeAssetInput{
			ID: "tbill2", Name: "T-Bill 2024-09", SPVID: "spv", FixedIncomeTypeID: "tb",
		}),
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
			ID:                     "buy",
			EntryTime:              ptr("2024-01-10T00:00:00Z"),
			FixedIncomeTransaction: &models.EditBaseTransactionInput{AssetID: ptr("tbill2")},
		}),
	)

	old := s.FixedIncomeAsset("tbill")
	require.True(t, old.Derived().Equal(models.DerivedFields{}))

	moved := s.FixedIncomeAsset("tbill2")
	requireDecimal(t, "96", moved.PurchaseProceeds)
	require.Equal(t, "2024-01-10T00:00:00.000Z", moved.PurchaseDate)

	requireDecimal(t, "904", cashBalance(t, s))
	require.NoError(t, CheckInvariants(s))
}

func TestEditGroupTransaction_ChangeTypeFlipsSign(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
		ID:   "draw",
		Type: ptr(models.PrincipalReturn),
	}))
	requireDecimal(t, "-1000", cashBalance(t, s))
	require.NoError(t, CheckInvariants(s))
}

func TestEditGroupTransaction_EmptyValuesAreIgnored(t *testing.T) {
	s := mustApply(t, baseState(t),
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
			ID:        "buy",
			Type:      ptr(models.GroupTransactionType("")),
			EntryTime: ptr(""),
			TxRef:     ptr("ref-1"),
		}),
	)

	i, _ := s.FindTransaction("buy")
	tx := s.Transactions[i]
	require.Equal(t, models.AssetPurchase, tx.Type)
	require.Equal(t, "2024-01-02T00:00:00Z", tx.EntryTime)
	require.NotNil(t, tx.TxRef)
	require.Equal(t, "ref-1", *tx.TxRef)
	requireDecimal(t, "904", cashBalance(t, s))
	require.NoError(t, CheckInvariants(s))
}

func TestEditGroupTransaction_Rejections(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, purchaseInput()))
	before := stateJSON(t, s)

	_, err := Apply(s, op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{ID: "ghost"}))
	require.Equal(t, "Group transaction with id ghost does not exist!", err.Error())

	next, err := Apply(s, op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
		ID:   "buy",
		Type: ptr(models.PrincipalDraw),
	}))
	require.True(t, errors.Is(err, apperrors.ErrDomainRule))
	require.Equal(t, before, stateJSON(t, next))

	_, err = Apply(s, op(models.OpEditGroupTransaction, models.EditGroupTransactionInput{
		ID:                     "buy",
		FixedIncomeTransaction: &models.EditBaseTransactionInput{AssetID: ptr("cash")},
	}))
	require.True(t, errors.Is(err, apperrors.ErrDomainRule))
}

func TestFees_AddRemoveSymmetry(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, purchaseInput()))
	before := stateJSON(t, s)

	s = mustApply(t, s, op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{
		ID:   "buy",
		Fees: []models.TransactionFee{{ID: "fee2", ServiceProviderFeeTypeID: "broker", Amount: dec("2.5")}},
	}))
	requireDecimal(t, "901.5", cashBalance(t, s))
	requireDecimal(t, "98.5", s.FixedIncomeAsset("tbill").PurchaseProceeds)
	require.NoError(t, CheckInvariants(s))

	s = mustApply(t, s, op(models.OpRemoveFeesFromGroupTransaction, models.RemoveFeesFromGroupTransactionInput{
		ID:     "buy",
		FeeIDs: []string{"fee2"},
	}))
	require.JSONEq(t, before, stateJSON(t, s))
}

func TestFees_RemoveOnlyCreditsRemovedSubset(t *testing.T) {
	s := mustApply(t, baseState(t),
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{
			ID:   "buy",
			Fees: []models.TransactionFee{{ID: "fee2", ServiceProviderFeeTypeID: "broker", Amount: dec("4")}},
		}),
		op(models.OpRemoveFeesFromGroupTransaction, models.RemoveFeesFromGroupTransactionInput{
			ID:     "buy",
			FeeIDs: []string{"fee1"},
		}),
	)
	requireDecimal(t, "901", cashBalance(t, s))
	require.NoError(t, CheckInvariants(s))
}

func TestFees_EditKeepsOnlyListedFees(t *testing.T) {
	s := mustApply(t, baseState(t),
		op(models.OpCreateGroupTransaction, purchaseInput()),
		op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{
			ID:   "buy",
			Fees: []models.TransactionFee{{ID: "fee2", ServiceProviderFeeTypeID: "broker", Amount: dec("2")}},
		}),
	)
	requireDecimal(t, "902", cashBalance(t, s))

	s = mustApply(t, s, op(models.OpEditGroupTransactionFees, models.EditGroupTransactionFeesInput{
		ID:   "buy",
		Fees: []models.EditTransactionFeeInput{{ID: "fee1", Amount: ptr(dec("3"))}},
	}))

	i, _ := s.FindTransaction("buy")
	fees := s.Transactions[i].Fees
	require.Len(t, fees, 1)
	require.Equal(t, "fee1", fees[0].ID)
	require.Equal(t, "broker", fees[0].ServiceProviderFeeTypeID)
	requireDecimal(t, "3", fees[0].Amount)
	requireDecimal(t, "902", cashBalance(t, s))
	requireDecimal(t, "-98", s.Transactions[i].CashBalanceChange)
	require.NoError(t, CheckInvariants(s))
}

func TestFees_Rejections(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, purchaseInput()))

	tests := []struct {
		name string
		op   models.Operation
		kind error
		msg  string
	}{
		{
			name: "add to unknown transaction",
			op:   op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{ID: "ghost", Fees: []models.TransactionFee{{ID: "x", ServiceProviderFeeTypeID: "broker", Amount: dec("1")}}}),
			kind: apperrors.ErrReference,
			msg:  "Group transaction with id ghost does not exist!",
		},
		{
			name: "add duplicate fee id",
			op:   op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{ID: "buy", Fees: []models.TransactionFee{{ID: "fee1", ServiceProviderFeeTypeID: "broker", Amount: dec("1")}}}),
			kind: apperrors.ErrDuplicate,
		},
		{
			name: "add non positive fee",
			op:   op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{ID: "buy", Fees: []models.TransactionFee{{ID: "x", ServiceProviderFeeTypeID: "broker", Amount: dec("-1")}}}),
			kind: apperrors.ErrDomainRule,
		},
		{
			name: "remove from transaction without fees",
			op:   op(models.OpRemoveFeesFromGroupTransaction, models.RemoveFeesFromGroupTransactionInput{ID: "draw", FeeIDs: []string{"x"}}),
			kind: apperrors.ErrDomainRule,
			msg:  "Transaction has no fees to remove",
		},
		{
			name: "remove unknown fee",
			op:   op(models.OpRemoveFeesFromGroupTransaction, models.RemoveFeesFromGroupTransactionInput{ID: "buy", FeeIDs: []string{"ghost"}}),
			kind: apperrors.ErrReference,
		},
		{
			name: "edit without fees",
			op:   op(models.OpEditGroupTransactionFees, models.EditGroupTransactionFeesInput{ID: "buy"}),
			kind: apperrors.ErrMissingField,
			msg:  "Fees must be provided",
		},
		{
			name: "edit on transaction without fees",
			op:   op(models.OpEditGroupTransactionFees, models.EditGroupTransactionFeesInput{ID: "draw", Fees: []models.EditTransactionFeeInput{{ID: "x"}}}),
			kind: apperrors.ErrDomainRule,
			msg:  "This transaction has no fees to update",
		},
		{
			name: "edit unknown fee type",
			op:   op(models.OpEditGroupTransactionFees, models.EditGroupTransactionFeesInput{ID: "buy", Fees: []models.EditTransactionFeeInput{{ID: "fee1", ServiceProviderFeeTypeID: ptr("ghost")}}}),
			kind: apperrors.ErrReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := stateJSON(t, s)
			next, err := Apply(s, tt.op)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.kind), "unexpected error %v", err)
			if tt.msg != "" {
				require.Equal(t, tt.msg, err.Error())
			}
			require.Equal(t, before, stateJSON(t, next))
		})
	}
}

func TestAddFees_RejectsFeesCategory(t *testing.T) {
	s := mustApply(t, baseState(t), op(models.OpCreateGroupTransaction, models.CreateGroupTransactionInput{
		ID:                       "fee-payment",
		Type:                     models.FeesPayment,
		EntryTime:                "2024-01-03",
		ServiceProviderFeeTypeID: ptr("broker"),
		CashTransaction:          cashLeg("fp-cash", "10"),
	}))
	requireDecimal(t, "990", cashBalance(t, s))

	_, err := Apply(s, op(models.OpAddFeesToGroupTransaction, models.AddFeesToGroupTransactionInput{
		ID:   "fee-payment",
		Fees: []models.TransactionFee{{ID: "x", ServiceProviderFeeTypeID: "broker", Amount: dec("1")}},
	}))
	require.Equal(t, "Cannot add fees to a transaction of type FeesPayment", err.Error())
}
