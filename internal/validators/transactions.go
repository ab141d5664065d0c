// Package validators checks candidate entities against a ledger state.
// Validators never modify the state they are given; they return nil or an
// *errors.ErrValidation describing the first problem found.
package validators

import (
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

// ValidateSharedGroupTransactionFields checks the fields every group
// transaction carries regardless of type.
func ValidateSharedGroupTransactionFields(id string, t models.GroupTransactionType, entryTime string) error {
	if id == "" {
		return apperrors.Missing("id", "Transaction must have an id")
	}
	if t == "" {
		return apperrors.Missing("type", "Transaction must have a type")
	}
	if !t.IsValid() {
		return apperrors.Rule("type", "Transaction type %s is not supported", t)
	}
	if entryTime == "" {
		return apperrors.Missing("entryTime", "Transaction must have an entry time")
	}
	if !models.IsValidDateTime(entryTime) {
		return apperrors.Rule("entryTime", "Entry time must be a valid date")
	}
	return nil
}

// ValidateGroupTransaction runs the shared checks, the cash leg checks and
// the checks specific to the transaction's category.
func ValidateGroupTransaction(state *models.State, tx models.GroupTransaction) error {
	if err := ValidateSharedGroupTransactionFields(tx.ID, tx.Type, tx.EntryTime); err != nil {
		return err
	}
	if err := ValidateCashTransaction(state, tx.CashTransaction); err != nil {
		return err
	}
	if !tx.Type.IsAsset() && tx.FixedIncomeTransaction != nil {
		return apperrors.Rule("fixedIncomeTransaction", "Only asset transactions can have a fixed income transaction")
	}

	switch tx.Type.Category() {
	case models.CategoryPrincipal:
		return ValidatePrincipalGroupTransaction(state, tx)
	case models.CategoryAsset:
		return ValidateAssetGroupTransaction(state, tx)
	case models.CategoryInterest:
		return ValidateInterestGroupTransaction(state, tx)
	case models.CategoryFees:
		return ValidateFeesGroupTransaction(state, tx)
	}
	return nil
}

func ValidatePrincipalGroupTransaction(state *models.State, tx models.GroupTransaction) error {
	return ValidateTransactionFees(state, tx.Fees)
}

func ValidateAssetGroupTransaction(state *models.State, tx models.GroupTransaction) error {
	if tx.FixedIncomeTransaction == nil {
		return apperrors.Missing("fixedIncomeTransaction", "Asset transaction must have a fixed income transaction")
	}
	if tx.UnitPrice == nil {
		return apperrors.Missing("unitPrice", "Asset transaction must have a unit price")
	}
	if err := ValidateFixedIncomeTransaction(state, *tx.FixedIncomeTransaction); err != nil {
		return err
	}
	if err := ValidateTransactionFees(state, tx.Fees); err != nil {
		return err
	}
	if !tx.UnitPrice.IsPositive() {
		return apperrors.Rule("unitPrice", "Unit price must be positive")
	}
	return nil
}

func ValidateInterestGroupTransaction(state *models.State, tx models.GroupTransaction) error {
	cp := tx.CashTransaction.CounterPartyAccountID
	if cp == nil || *cp == "" {
		return apperrors.Missing("counterPartyAccountId", "Interest transaction must have a counter party account")
	}
	switch tx.Type {
	case models.InterestPayment:
		if *cp != state.PrincipalLenderAccountID {
			return apperrors.Rule("counterPartyAccountId", "Interest payment must have the principal lender as the counter party")
		}
	case models.InterestIncome:
		if _, ok := state.FindAccount(*cp); !ok {
			return apperrors.Reference("counterPartyAccountId", "Counter party with account id %s does not exist!", *cp)
		}
	}
	return ValidateTransactionFees(state, tx.Fees)
}

// ValidateFeesGroupTransaction checks the fee type only when one is set.
// Fees-category transactions never carry transaction fees of their own.
func ValidateFeesGroupTransaction(state *models.State, tx models.GroupTransaction) error {
	if len(tx.Fees) > 0 {
		return apperrors.Rule("fees", "Fees transactions cannot have transaction fees")
	}
	if tx.ServiceProviderFeeTypeID == nil || *tx.ServiceProviderFeeTypeID == "" {
		return nil
	}
	if _, ok := state.FindServiceProviderFeeType(*tx.ServiceProviderFeeTypeID); !ok {
		return apperrors.Reference("serviceProviderFeeTypeId", "Service provider with id %s does not exist!", *tx.ServiceProviderFeeTypeID)
	}
	return nil
}

// ValidateBaseTransaction checks the fields shared by both transaction legs.
func ValidateBaseTransaction(state *models.State, leg models.BaseTransaction) error {
	if leg.AssetID == "" {
		return apperrors.Missing("assetId", "Transaction must have an asset")
	}
	if _, ok := state.FindAsset(leg.AssetID); !ok {
		return apperrors.Reference("assetId", "Asset with id %s does not exist!", leg.AssetID)
	}
	if leg.Amount.IsZero() {
		return apperrors.Missing("amount", "Transaction must have an amount")
	}
	if !leg.Amount.IsPositive() {
		return apperrors.Rule("amount", "Transaction amount must be positive")
	}
	if leg.EntryTime == "" {
		return apperrors.Missing("entryTime", "Transaction must have an entry time")
	}
	if !models.IsValidDateTime(leg.EntryTime) {
		return apperrors.Rule("entryTime", "Entry time must be a valid date")
	}
	if leg.TradeTime != nil && *leg.TradeTime != "" && !models.IsValidDateTime(*leg.TradeTime) {
		return apperrors.Rule("tradeTime", "Trade time must be a valid date")
	}
	if leg.SettlementTime != nil && *leg.SettlementTime != "" && !models.IsValidDateTime(*leg.SettlementTime) {
		return apperrors.Rule("settlementTime", "Settlement time must be a valid date")
	}
	if leg.AccountID != nil && *leg.AccountID != "" {
		if _, ok := state.FindAccount(*leg.AccountID); !ok {
			return apperrors.Reference("accountId", "Account with id %s does not exist!", *leg.AccountID)
		}
	}
	if leg.CounterPartyAccountID != nil && *leg.CounterPartyAccountID != "" {
		if _, ok := state.FindAccount(*leg.CounterPartyAccountID); !ok {
			return apperrors.Reference("counterPartyAccountId", "Counter party account with id %s does not exist!", *leg.CounterPartyAccountID)
		}
	}
	return nil
}

func ValidateCashTransaction(state *models.State, leg models.BaseTransaction) error {
	if leg.AssetType != models.AssetTypeCash {
		return apperrors.Rule("assetType", "Cash transaction must have a cash type")
	}
	if err := ValidateBaseTransaction(state, leg); err != nil {
		return err
	}
	if leg.CounterPartyAccountID == nil || *leg.CounterPartyAccountID != state.PrincipalLenderAccountID {
		return apperrors.Rule("counterPartyAccountId", "Cash transaction must have the principal lender as the counter party")
	}
	if _, ok := state.Asset(leg.AssetID).(*models.Cash); !ok {
		return apperrors.Rule("assetId", "Cash transaction must have a cash asset as the asset")
	}
	return nil
}

func ValidateFixedIncomeTransaction(state *models.State, leg models.BaseTransaction) error {
	if leg.AssetType != models.AssetTypeFixedIncome {
		return apperrors.Rule("assetType", "Fixed income transaction must have a fixed income type")
	}
	if err := ValidateBaseTransaction(state, leg); err != nil {
		return err
	}
	if state.FixedIncomeAsset(leg.AssetID) == nil {
		return apperrors.Rule("assetId", "Fixed income transaction must have a fixed income type")
	}
	return nil
}
