package validators

import (
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

func ValidateTransactionFee(state *models.State, fee models.TransactionFee) error {
	if fee.ID == "" {
		return apperrors.Missing("fees.id", "Transaction fee must have an id")
	}
	if fee.ServiceProviderFeeTypeID == "" {
		return apperrors.Missing("fees.serviceProviderFeeTypeId", "Transaction fee must have a service provider")
	}
	if fee.Amount.IsZero() {
		return apperrors.Missing("fees.amount", "Transaction fee must have an amount")
	}
	if _, ok := state.FindServiceProviderFeeType(fee.ServiceProviderFeeTypeID); !ok {
		return apperrors.Reference("fees.serviceProviderFeeTypeId", "Service provider with account id %s does not exist!", fee.ServiceProviderFeeTypeID)
	}
	if !fee.Amount.IsPositive() {
		return apperrors.Rule("fees.amount", "Fee amount must be a number")
	}
	return nil
}

// ValidateTransactionFees validates each fee and rejects repeated fee ids.
// A nil list is valid.
func ValidateTransactionFees(state *models.State, fees []models.TransactionFee) error {
	seen := make(map[string]struct{}, len(fees))
	for _, fee := range fees {
		if err := ValidateTransactionFee(state, fee); err != nil {
			return err
		}
		if _, dup := seen[fee.ID]; dup {
			return apperrors.Duplicate("fees.id", "Fee with id %s already exists!", fee.ID)
		}
		seen[fee.ID] = struct{}{}
	}
	return nil
}
