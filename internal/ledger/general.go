package ledger

import (
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

func createSPV(s *models.State, in models.CreateSPVInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "SPV must have an id")
	}
	if in.Name == "" {
		return apperrors.Missing("name", "SPV must have a name")
	}
	if _, ok := s.FindSPV(in.ID); ok {
		return apperrors.Duplicate("id", "SPV with id %s already exists!", in.ID)
	}
	s.SPVs = append(s.SPVs, models.SPV{ID: in.ID, Name: in.Name})
	return nil
}

func editSPV(s *models.State, in models.EditSPVInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "SPV must have an id")
	}
	i, ok := s.FindSPV(in.ID)
	if !ok {
		return apperrors.Reference("id", "SPV with id %s does not exist!", in.ID)
	}
	if in.Name != nil {
		if *in.Name == "" {
			return apperrors.Missing("name", "SPV must have a name")
		}
		s.SPVs[i].Name = *in.Name
	}
	return nil
}

func deleteSPV(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "SPV must have an id")
	}
	i, ok := s.FindSPV(in.ID)
	if !ok {
		return apperrors.Reference("id", "SPV with id %s does not exist!", in.ID)
	}
	for _, a := range s.Portfolio {
		if a.AssetSPVID() == in.ID {
			return apperrors.Dependency("Cannot delete SPV because it has assets that depend on it. Please change or delete those assets first.")
		}
	}
	s.SPVs = append(s.SPVs[:i], s.SPVs[i+1:]...)
	return nil
}

func createServiceProviderFeeType(s *models.State, in models.CreateServiceProviderFeeTypeInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Service provider must have an id")
	}
	if in.Name == "" {
		return apperrors.Missing("name", "Service provider must have a name")
	}
	if in.FeeType == "" {
		return apperrors.Missing("feeType", "Service provider must have a fee type")
	}
	if in.AccountID == "" {
		return apperrors.Missing("accountId", "Service provider must have an associated account id")
	}
	if _, ok := s.FindAccount(in.AccountID); !ok {
		return apperrors.Reference("accountId", "Account with id %s does not exist!", in.AccountID)
	}
	if _, ok := s.FindServiceProviderFeeType(in.ID); ok {
		return apperrors.Duplicate("id", "Service provider with id %s already exists!", in.ID)
	}
	s.ServiceProviderFeeTypes = append(s.ServiceProviderFeeTypes, models.ServiceProviderFeeType{
		ID:        in.ID,
		Name:      in.Name,
		FeeType:   in.FeeType,
		AccountID: in.AccountID,
	})
	return nil
}

func editServiceProviderFeeType(s *models.State, in models.EditServiceProviderFeeTypeInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Service provider must have an id")
	}
	i, ok := s.FindServiceProviderFeeType(in.ID)
	if !ok {
		return apperrors.Reference("id", "Service provider with id %s does not exist!", in.ID)
	}
	if in.AccountID != nil {
		if _, ok := s.FindAccount(*in.AccountID); !ok {
			return apperrors.Reference("accountId", "Account with id %s does not exist!", *in.AccountID)
		}
	}

	spft := s.ServiceProviderFeeTypes[i]
	if in.Name != nil {
		if *in.Name == "" {
			return apperrors.Missing("name", "Service provider must have a name")
		}
		spft.Name = *in.Name
	}
	if in.FeeType != nil {
		if *in.FeeType == "" {
			return apperrors.Missing("feeType", "Service provider must have a fee type")
		}
		spft.FeeType = *in.FeeType
	}
	if in.AccountID != nil {
		spft.AccountID = *in.AccountID
	}
	s.ServiceProviderFeeTypes[i] = spft
	return nil
}

func deleteServiceProviderFeeType(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Service provider fee type must have an id")
	}
	i, ok := s.FindServiceProviderFeeType(in.ID)
	if !ok {
		return apperrors.Reference("id", "Service provider with id %s does not exist!", in.ID)
	}
	for _, t := range s.Transactions {
		if t.ServiceProviderFeeTypeID != nil && *t.ServiceProviderFeeTypeID == in.ID {
			return errSPFTInUse()
		}
		for _, f := range t.Fees {
			if f.ServiceProviderFeeTypeID == in.ID {
				return errSPFTInUse()
			}
		}
	}
	s.ServiceProviderFeeTypes = append(s.ServiceProviderFeeTypes[:i], s.ServiceProviderFeeTypes[i+1:]...)
	return nil
}

func errSPFTInUse() error {
	return apperrors.Dependency("Cannot delete service provider fee type because it has transactions that depend on it. Please change or delete those transactions first.")
}

func createAccount(s *models.State, in models.CreateAccountInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Account must have an id")
	}
	if in.Reference == "" {
		return apperrors.Missing("reference", "Account must have a reference")
	}
	if _, ok := s.FindAccount(in.ID); ok {
		return apperrors.Duplicate("id", "Account with id %s already exists!", in.ID)
	}
	s.Accounts = append(s.Accounts, models.Account{ID: in.ID, Reference: in.Reference, Label: in.Label})
	return nil
}

func editAccount(s *models.State, in models.EditAccountInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Account must have an id")
	}
	i, ok := s.FindAccount(in.ID)
	if !ok {
		return apperrors.Reference("id", "Account with id %s does not exist!", in.ID)
	}
	if in.Reference != nil {
		if *in.Reference == "" {
			return apperrors.Missing("reference", "Account must have a reference")
		}
		s.Accounts[i].Reference = *in.Reference
	}
	if in.Label != nil {
		label := *in.Label
		s.Accounts[i].Label = &label
	}
	return nil
}

func deleteAccount(s *models.State, in models.DeleteInput) error {
	if in.ID == "" {
		return apperrors.Missing("id", "Account must have an id")
	}
	if in.ID == s.PrincipalLenderAccountID {
		return apperrors.Rule("id", "Cannot delete principal lender account.")
	}
	i, ok := s.FindAccount(in.ID)
	if !ok {
		return apperrors.Reference("id", "Account with id %s does not exist!", in.ID)
	}
	for _, spft := range s.ServiceProviderFeeTypes {
		if spft.AccountID == in.ID {
			return apperrors.Dependency("Cannot delete account because it has service provider fee types that depend on it. Please change or delete those service provider fee types first.")
		}
	}
	for _, t := range s.Transactions {
		if legReferencesAccount(&t.CashTransaction, in.ID) || legReferencesAccount(t.FixedIncomeTransaction, in.ID) {
			return apperrors.Dependency("Cannot delete account because it has transactions that depend on it. Please change or delete those transactions first.")
		}
	}
	s.Accounts = append(s.Accounts[:i], s.Accounts[i+1:]...)
	return nil
}

func legReferencesAccount(leg *models.BaseTransaction, accountID string) bool {
	if leg == nil {
		return false
	}
	if leg.AccountID != nil && *leg.AccountID == accountID {
		return true
	}
	return leg.CounterPartyAccountID != nil && *leg.CounterPartyAccountID == accountID
}
