package validators

import (
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

// ValidateFixedIncomeAsset checks the references and dates of an asset.
// Empty references are left to the required-field checks of the caller.
func ValidateFixedIncomeAsset(state *models.State, asset *models.FixedIncome) error {
	if asset == nil {
		return nil
	}
	if asset.FixedIncomeTypeID != "" {
		if _, ok := state.FindFixedIncomeType(asset.FixedIncomeTypeID); !ok {
			return apperrors.Reference("fixedIncomeTypeId", "Fixed income type with id %s does not exist!", asset.FixedIncomeTypeID)
		}
	}
	if asset.SPVID != "" {
		if _, ok := state.FindSPV(asset.SPVID); !ok {
			return apperrors.Reference("spvId", "SPV with id %s does not exist!", asset.SPVID)
		}
	}
	if asset.Maturity != nil && *asset.Maturity != "" && !models.IsValidDateTime(*asset.Maturity) {
		return apperrors.Rule("maturity", "Maturity must be a valid date")
	}
	return nil
}

// ValidateFixedIncomeAssetDerivedFields checks derived values that are not
// guaranteed by their Go types.
func ValidateFixedIncomeAssetDerivedFields(d models.DerivedFields) error {
	if d.PurchaseDate != "" && !models.IsValidDateTime(d.PurchaseDate) {
		return apperrors.Rule("purchaseDate", "Purchase date must be a valid date")
	}
	return nil
}
