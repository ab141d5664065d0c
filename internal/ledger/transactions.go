package ledger

import (
	"github.com/shopspring/decimal"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/validators"
	"github.com/tropicaldog17/rwa/internal/valuation"
)

func createGroupTransaction(s *models.State, in models.CreateGroupTransactionInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Group transaction must have an id")
	}
	if _, ok := s.FindTransaction(in.ID); ok {
		return apperrors.Duplicate("id", "Group transaction with id %s already exists!", in.ID)
	}

	cashBalanceChange, err := valuation.CashBalanceChange(in.Type, in.CashTransaction.Amount, in.Fees)
	if err != nil {
		return err
	}

	tx := models.GroupTransaction{
		ID:                       in.ID,
		Type:                     in.Type,
		EntryTime:                in.EntryTime,
		CashBalanceChange:        cashBalanceChange,
		ServiceProviderFeeTypeID: in.ServiceProviderFeeTypeID,
		TxRef:                    in.TxRef,
		Fees:                     in.Fees,
		CashTransaction:          in.CashTransaction.Clone(),
	}
	tx.CashTransaction.EntryTime = in.EntryTime
	if in.FixedIncomeTransaction != nil {
		leg := in.FixedIncomeTransaction.Clone()
		leg.EntryTime = in.EntryTime
		tx.FixedIncomeTransaction = &leg
		unitPrice := valuation.UnitPrice(in.CashTransaction.Amount, leg.Amount)
		tx.UnitPrice = &unitPrice
	}
	tx = tx.Clone()

	if err := validators.ValidateGroupTransaction(s, tx); err != nil {
		return err
	}

	s.Transactions = append(s.Transactions, tx)
	if err := adjustCashBalance(s, tx.CashBalanceChange); err != nil {
		return err
	}
	if assetID := tx.FixedIncomeAssetID(); assetID != "" {
		return refreshFixedIncomeAsset(s, assetID)
	}
	return nil
}

func editGroupTransaction(s *models.State, in models.EditGroupTransactionInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Group transaction must have an id")
	}
	i, ok := s.FindTransaction(in.ID)
	if !ok {
		return apperrors.Reference("id", "Group transaction with id %s does not exist!", in.ID)
	}
	old := s.Transactions[i]
	next := old.Clone()

	if in.Type != nil && *in.Type != "" {
		next.Type = *in.Type
	}
	if in.EntryTime != nil && *in.EntryTime != "" {
		next.EntryTime = *in.EntryTime
		next.CashTransaction.EntryTime = *in.EntryTime
	}
	if in.ServiceProviderFeeTypeID != nil {
		next.ServiceProviderFeeTypeID = optionalString(*in.ServiceProviderFeeTypeID)
	}
	if in.TxRef != nil {
		next.TxRef = optionalString(*in.TxRef)
	}
	if in.CashTransaction != nil && in.CashTransaction.Amount != nil {
		next.CashTransaction.Amount = *in.CashTransaction.Amount
	}
	if leg := next.FixedIncomeTransaction; leg != nil {
		if in.FixedIncomeTransaction != nil {
			if in.FixedIncomeTransaction.Amount != nil {
				leg.Amount = *in.FixedIncomeTransaction.Amount
			}
			if in.FixedIncomeTransaction.AssetID != nil {
				leg.AssetID = *in.FixedIncomeTransaction.AssetID
			}
		}
		leg.EntryTime = next.EntryTime
		unitPrice := valuation.UnitPrice(next.CashTransaction.Amount, leg.Amount)
		next.UnitPrice = &unitPrice
	}

	cashBalanceChange, err := valuation.CashBalanceChange(next.Type, next.CashTransaction.Amount, next.Fees)
	if err != nil {
		return err
	}
	next.CashBalanceChange = cashBalanceChange

	if err := validators.ValidateGroupTransaction(s, next); err != nil {
		return err
	}

	s.Transactions[i] = next
	if err := adjustCashBalance(s, next.CashBalanceChange.Sub(old.CashBalanceChange)); err != nil {
		return err
	}
	return refreshAssets(s, old.FixedIncomeAssetID(), next.FixedIncomeAssetID())
}

func deleteGroupTransaction(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Group transaction must have an id")
	}
	i, ok := s.FindTransaction(in.ID)
	if !ok {
		return apperrors.Reference("id", "Transaction does not exist")
	}
	removed := s.Transactions[i]
	s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)

	if err := adjustCashBalance(s, removed.CashBalanceChange.Neg()); err != nil {
		return err
	}
	return refreshAssets(s, removed.FixedIncomeAssetID())
}

func addFeesToGroupTransaction(s *models.State, in models.AddFeesToGroupTransactionInput) error {
	i, ok := s.FindTransaction(in.ID)
	if !ok {
		return apperrors.Reference("id", "Group transaction with id %s does not exist!", in.ID)
	}
	tx := s.Transactions[i].Clone()
	if tx.Type.IsFees() {
		return apperrors.Rule("type", "Cannot add fees to a transaction of type %s", tx.Type)
	}
	if len(in.Fees) == 0 {
		return apperrors.Missing("fees", "Fees must be provided")
	}
	if err := validators.ValidateTransactionFees(s, in.Fees); err != nil {
		return err
	}
	for _, f := range in.Fees {
		if tx.FeeIndex(f.ID) >= 0 {
			return apperrors.Duplicate("fees.id", "Fee with id %s already exists!", f.ID)
		}
	}

	fees := make([]models.TransactionFee, 0, len(tx.Fees)+len(in.Fees))
	fees = append(fees, tx.Fees...)
	fees = append(fees, in.Fees...)
	return replaceFees(s, i, tx, fees)
}

func removeFeesFromGroupTransaction(s *models.State, in models.RemoveFeesFromGroupTransactionInput) error {
	i, ok := s.FindTransaction(in.ID)
	if !ok {
		return apperrors.Reference("id", "Transaction does not exist")
	}
	tx := s.Transactions[i].Clone()
	if len(tx.Fees) == 0 {
		return apperrors.Rule("fees", "Transaction has no fees to remove")
	}

	drop := make(map[string]struct{}, len(in.FeeIDs))
	for _, id := range in.FeeIDs {
		if tx.FeeIndex(id) < 0 {
			return apperrors.Reference("feeIds", "Fee with id %s does not exist!", id)
		}
		drop[id] = struct{}{}
	}

	fees := make([]models.TransactionFee, 0, len(tx.Fees))
	for _, f := range tx.Fees {
		if _, gone := drop[f.ID]; !gone {
			fees = append(fees, f)
		}
	}
	return replaceFees(s, i, tx, fees)
}

func editGroupTransactionFees(s *models.State, in models.EditGroupTransactionFeesInput) error {
	if in.Fees == nil {
		return apperrors.Missing("fees", "Fees must be provided")
	}
	i, ok := s.FindTransaction(in.ID)
	if !ok {
		return apperrors.Reference("id", "Transaction does not exist")
	}
	tx := s.Transactions[i].Clone()
	if len(tx.Fees) == 0 {
		return apperrors.Rule("fees", "This transaction has no fees to update")
	}

	// the edited list holds exactly the listed fees; unlisted ones are dropped
	fees := make([]models.TransactionFee, 0, len(in.Fees))
	for _, change := range in.Fees {
		j := tx.FeeIndex(change.ID)
		if j < 0 {
			return apperrors.Reference("fees.id", "Fee with id %s does not exist!", change.ID)
		}
		fee := tx.Fees[j]
		if change.ServiceProviderFeeTypeID != nil {
			fee.ServiceProviderFeeTypeID = *change.ServiceProviderFeeTypeID
		}
		if change.Amount != nil {
			fee.Amount = *change.Amount
		}
		if err := validators.ValidateTransactionFee(s, fee); err != nil {
			return err
		}
		fees = append(fees, fee)
	}
	return replaceFees(s, i, tx, fees)
}

// replaceFees swaps the fee list of the i-th transaction, moves the cash
// balance by oldTotalFees - newTotalFees and refreshes the asset leg.
func replaceFees(s *models.State, i int, tx models.GroupTransaction, fees []models.TransactionFee) error {
	delta := valuation.TotalFees(tx.Fees).Sub(valuation.TotalFees(fees))

	tx.Fees = fees
	cashBalanceChange, err := valuation.CashBalanceChange(tx.Type, tx.CashTransaction.Amount, tx.Fees)
	if err != nil {
		return err
	}
	tx.CashBalanceChange = cashBalanceChange
	s.Transactions[i] = tx

	if err := adjustCashBalance(s, delta); err != nil {
		return err
	}
	return refreshAssets(s, tx.FixedIncomeAssetID())
}

func adjustCashBalance(s *models.State, delta decimal.Decimal) error {
	cash, i := s.CashAsset()
	if cash == nil {
		return apperrors.Reference("cashTransaction.assetId", "Portfolio has no cash asset")
	}
	next := cash.CloneAsset().(*models.Cash)
	next.Balance = next.Balance.Add(delta)
	s.Portfolio[i] = next
	return nil
}

// refreshAssets recomputes each distinct non-empty fixed income asset id.
func refreshAssets(s *models.State, assetIDs ...string) error {
	seen := make(map[string]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		if id == "" {
			continue
		}
		if _, done := seen[id]; done {
			continue
		}
		seen[id] = struct{}{}
		if err := refreshFixedIncomeAsset(s, id); err != nil {
			return err
		}
	}
	return nil
}
