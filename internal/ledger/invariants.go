package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/validators"
	"github.com/tropicaldog17/rwa/internal/valuation"
	"go.uber.org/multierr"
)

// CheckInvariants verifies a whole state and returns every violation found,
// combined with multierr. Use multierr.Errors to list them.
func CheckInvariants(state models.State) error {
	s := &state
	errs := checkUniqueIDs(s)

	for _, spft := range s.ServiceProviderFeeTypes {
		if _, ok := s.FindAccount(spft.AccountID); !ok {
			errs = multierr.Append(errs, fmt.Errorf("service provider fee type %s: account %s does not exist", spft.ID, spft.AccountID))
		}
	}

	var cashAssets []*models.Cash
	for _, a := range s.Portfolio {
		if _, ok := s.FindSPV(a.AssetSPVID()); !ok {
			errs = multierr.Append(errs, fmt.Errorf("asset %s: spv %s does not exist", a.AssetID(), a.AssetSPVID()))
		}
		switch asset := a.(type) {
		case *models.Cash:
			cashAssets = append(cashAssets, asset)
		case *models.FixedIncome:
			errs = multierr.Append(errs, checkFixedIncomeAsset(s, asset))
		}
	}

	switch {
	case len(cashAssets) > 1:
		errs = multierr.Append(errs, fmt.Errorf("portfolio has %d cash assets, expected one", len(cashAssets)))
	case len(cashAssets) == 0 && len(s.Transactions) > 0:
		errs = multierr.Append(errs, fmt.Errorf("portfolio has transactions but no cash asset"))
	}

	total := decimal.Zero
	for _, tx := range s.Transactions {
		total = total.Add(tx.CashBalanceChange)
		if err := validators.ValidateGroupTransaction(s, tx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("transaction %s: %w", tx.ID, err))
		}
		want, err := valuation.CashBalanceChange(tx.Type, tx.CashTransaction.Amount, tx.Fees)
		if err == nil && !want.Equal(tx.CashBalanceChange) {
			errs = multierr.Append(errs, fmt.Errorf("transaction %s: cash balance change %s, expected %s", tx.ID, tx.CashBalanceChange, want))
		}
	}
	if len(cashAssets) == 1 && !cashAssets[0].Balance.Equal(total) {
		errs = multierr.Append(errs, fmt.Errorf("cash asset %s: balance %s, expected %s", cashAssets[0].ID, cashAssets[0].Balance, total))
	}

	return errs
}

func checkFixedIncomeAsset(s *models.State, asset *models.FixedIncome) error {
	var errs error
	if err := validators.ValidateFixedIncomeAsset(s, asset); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("asset %s: %w", asset.ID, err))
	}
	want, err := valuation.ComputeFixedIncomeDerivedFields(s.TransactionsForAsset(asset.ID))
	if err != nil {
		return multierr.Append(errs, fmt.Errorf("asset %s: %w", asset.ID, err))
	}
	if !asset.Derived().Equal(want) {
		errs = multierr.Append(errs, fmt.Errorf("asset %s: derived fields are stale", asset.ID))
	}
	return errs
}

func checkUniqueIDs(s *models.State) error {
	var errs error
	dup := func(kind string, ids []string) {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				errs = multierr.Append(errs, fmt.Errorf("duplicate %s id %s", kind, id))
			}
			seen[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		ids = append(ids, a.ID)
	}
	dup("account", ids)

	ids = ids[:0]
	for _, v := range s.SPVs {
		ids = append(ids, v.ID)
	}
	dup("spv", ids)

	ids = ids[:0]
	for _, v := range s.ServiceProviderFeeTypes {
		ids = append(ids, v.ID)
	}
	dup("service provider fee type", ids)

	ids = ids[:0]
	for _, v := range s.FixedIncomeTypes {
		ids = append(ids, v.ID)
	}
	dup("fixed income type", ids)

	ids = ids[:0]
	for _, a := range s.Portfolio {
		ids = append(ids, a.AssetID())
	}
	dup("asset", ids)

	ids = ids[:0]
	for _, t := range s.Transactions {
		ids = append(ids, t.ID)
	}
	dup("transaction", ids)

	return errs
}
