package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
	"github.com/tropicaldog17/rwa/internal/validators"
	"github.com/tropicaldog17/rwa/internal/valuation"
)

func createFixedIncomeType(s *models.State, in models.CreateFixedIncomeTypeInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income type must have an id")
	}
	if in.Name == "" {
		return apperrors.Missing("name", "Fixed income type must have a name")
	}
	if _, ok := s.FindFixedIncomeType(in.ID); ok {
		return apperrors.Duplicate("id", "Type with id %s already exists!", in.ID)
	}
	s.FixedIncomeTypes = append(s.FixedIncomeTypes, models.FixedIncomeType{ID: in.ID, Name: in.Name})
	return nil
}

func editFixedIncomeType(s *models.State, in models.EditFixedIncomeTypeInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income type must have an id")
	}
	i, ok := s.FindFixedIncomeType(in.ID)
	if !ok {
		return apperrors.Reference("id", "Type with id %s does not exist!", in.ID)
	}
	if in.Name != nil {
		if *in.Name == "" {
			return apperrors.Missing("name", "Fixed income type must have a name")
		}
		s.FixedIncomeTypes[i].Name = *in.Name
	}
	return nil
}

func deleteFixedIncomeType(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income type must have an id")
	}
	i, ok := s.FindFixedIncomeType(in.ID)
	if !ok {
		return apperrors.Reference("id", "Type with id %s does not exist!", in.ID)
	}
	for _, a := range s.Portfolio {
		if fi, ok := a.(*models.FixedIncome); ok && fi.FixedIncomeTypeID == in.ID {
			return apperrors.Dependency("Cannot delete fixed income type because it has assets that depend on it. Please change or delete those assets first.")
		}
	}
	s.FixedIncomeTypes = append(s.FixedIncomeTypes[:i], s.FixedIncomeTypes[i+1:]...)
	return nil
}

func createFixedIncomeAsset(s *models.State, in models.CreateFixedIncomeAssetInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income asset must have an id")
	}
	if _, ok := s.FindAsset(in.ID); ok {
		return apperrors.Duplicate("id", "Asset with id %s already exists!", in.ID)
	}
	if in.FixedIncomeTypeID == "" {
		return apperrors.Missing("fixedIncomeTypeId", "Fixed income asset must have a type")
	}
	if in.Name == "" {
		return apperrors.Missing("name", "Fixed income asset must have a name")
	}
	if in.SPVID == "" {
		return apperrors.Missing("spvId", "Fixed income asset must have an SPV")
	}

	asset := &models.FixedIncome{
		Type:              models.AssetTypeFixedIncome,
		ID:                in.ID,
		Name:              in.Name,
		SPVID:             in.SPVID,
		FixedIncomeTypeID: in.FixedIncomeTypeID,
		Maturity:          in.Maturity,
		ISIN:              in.ISIN,
		CUSIP:             in.CUSIP,
		Coupon:            in.Coupon,
	}
	if err := validators.ValidateFixedIncomeAsset(s, asset); err != nil {
		return err
	}
	s.Portfolio = append(s.Portfolio, asset)
	return nil
}

func editFixedIncomeAsset(s *models.State, in models.EditFixedIncomeAssetInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income asset must have an id")
	}
	i, ok := s.FindAsset(in.ID)
	if !ok {
		return apperrors.Reference("id", "Asset with id %s does not exist!", in.ID)
	}
	current, ok := s.Portfolio[i].(*models.FixedIncome)
	if !ok {
		return apperrors.Rule("id", "Asset with id %s is not a fixed income asset", in.ID)
	}

	next := current.CloneAsset().(*models.FixedIncome)
	if in.Name != nil {
		if *in.Name == "" {
			return apperrors.Missing("name", "Fixed income asset must have a name")
		}
		next.Name = *in.Name
	}
	if in.SPVID != nil {
		if *in.SPVID == "" {
			return apperrors.Missing("spvId", "Fixed income asset must have an SPV")
		}
		next.SPVID = *in.SPVID
	}
	if in.FixedIncomeTypeID != nil {
		if *in.FixedIncomeTypeID == "" {
			return apperrors.Missing("fixedIncomeTypeId", "Fixed income asset must have a type")
		}
		next.FixedIncomeTypeID = *in.FixedIncomeTypeID
	}
	if in.Maturity != nil {
		next.Maturity = optionalString(*in.Maturity)
	}
	if in.ISIN != nil {
		next.ISIN = optionalString(*in.ISIN)
	}
	if in.CUSIP != nil {
		next.CUSIP = optionalString(*in.CUSIP)
	}
	if in.Coupon != nil {
		c := *in.Coupon
		next.Coupon = &c
	}
	if err := validators.ValidateFixedIncomeAsset(s, next); err != nil {
		return err
	}
	s.Portfolio[i] = next
	return nil
}

func deleteFixedIncomeAsset(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Fixed income asset must have an id")
	}
	i, ok := s.FindAsset(in.ID)
	if !ok {
		return apperrors.Reference("id", "Asset with id %s does not exist!", in.ID)
	}
	if _, ok := s.Portfolio[i].(*models.FixedIncome); !ok {
		return apperrors.Rule("id", "Asset with id %s is not a fixed income asset", in.ID)
	}
	for _, t := range s.Transactions {
		if t.FixedIncomeAssetID() == in.ID {
			return errAssetInUse()
		}
	}
	s.Portfolio = append(s.Portfolio[:i], s.Portfolio[i+1:]...)
	return nil
}

func createCashAsset(s *models.State, in models.CreateCashAssetInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Cash asset must have an id")
	}
	if in.SPVID == "" {
		return apperrors.Missing("spvId", "Cash asset must have a spv")
	}
	if in.Currency == "" {
		return apperrors.Missing("currency", "Cash asset must have a currency")
	}
	if _, ok := s.FindSPV(in.SPVID); !ok {
		return apperrors.Reference("spvId", "SPV with id %s does not exist!", in.SPVID)
	}
	if err := checkCurrency(in.Currency); err != nil {
		return err
	}
	if _, ok := s.FindAsset(in.ID); ok {
		return apperrors.Duplicate("id", "Asset with id %s already exists!", in.ID)
	}
	if existing, _ := s.CashAsset(); existing != nil {
		return apperrors.Duplicate("id", "Portfolio already has a cash asset with id %s", existing.ID)
	}
	s.Portfolio = append(s.Portfolio, &models.Cash{
		Type:     models.AssetTypeCash,
		ID:       in.ID,
		SPVID:    in.SPVID,
		Currency: in.Currency,
		Balance:  decimal.Zero,
	})
	return nil
}

func editCashAsset(s *models.State, in models.EditCashAssetInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Cash asset must have an id")
	}
	i, ok := s.FindAsset(in.ID)
	if !ok {
		return apperrors.Reference("id", "Asset with id %s does not exist!", in.ID)
	}
	current, ok := s.Portfolio[i].(*models.Cash)
	if !ok {
		return apperrors.Rule("id", "Asset with id %s is not a cash asset", in.ID)
	}
	next := current.CloneAsset().(*models.Cash)
	if in.SPVID != nil {
		if _, ok := s.FindSPV(*in.SPVID); !ok {
			return apperrors.Reference("spvId", "SPV with id %s does not exist!", *in.SPVID)
		}
		next.SPVID = *in.SPVID
	}
	if in.Currency != nil {
		if err := checkCurrency(*in.Currency); err != nil {
			return err
		}
		next.Currency = *in.Currency
	}
	s.Portfolio[i] = next
	return nil
}

func deleteCashAsset(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Cash asset must have an id")
	}
	i, ok := s.FindAsset(in.ID)
	if !ok {
		return apperrors.Reference("id", "Asset with id %s does not exist!", in.ID)
	}
	if _, ok := s.Portfolio[i].(*models.Cash); !ok {
		return apperrors.Rule("id", "Asset with id %s is not a cash asset", in.ID)
	}
	for _, t := range s.Transactions {
		if t.CashTransaction.AssetID == in.ID {
			return errAssetInUse()
		}
	}
	s.Portfolio = append(s.Portfolio[:i], s.Portfolio[i+1:]...)
	return nil
}

func errAssetInUse() error {
	return apperrors.Dependency("Cannot delete asset because it has dependent transactions. Please change or delete those transactions first.")
}

// checkCurrency accepts ISO 4217 codes known to go-money, and of those only USD.
func checkCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return apperrors.Rule("currency", "Currency %s is not a valid ISO 4217 code", code)
	}
	if code != models.CurrencyUSD {
		return apperrors.Rule("currency", "Only USD currency is supported")
	}
	return nil
}

// refreshFixedIncomeAsset recomputes the derived fields of assetID from the
// transactions currently in s.
func refreshFixedIncomeAsset(s *models.State, assetID string) error {
	i, ok := s.FindAsset(assetID)
	if !ok {
		return apperrors.Reference("assetId", "Asset with id %s does not exist!", assetID)
	}
	fi, ok := s.Portfolio[i].(*models.FixedIncome)
	if !ok {
		return apperrors.Rule("assetId", "Asset with id %s is not a fixed income asset", assetID)
	}
	derived, err := valuation.ComputeFixedIncomeDerivedFields(s.TransactionsForAsset(assetID))
	if err != nil {
		return apperrors.Rule("entryTime", "Entry time must be a valid date")
	}
	if err := validators.ValidateFixedIncomeAssetDerivedFields(derived); err != nil {
		return err
	}
	s.Portfolio[i] = fi.WithDerived(derived)
	return nil
}

// optionalString maps an explicit empty string to a cleared field.
func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
