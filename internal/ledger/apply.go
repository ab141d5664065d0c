// Package ledger is the portfolio reducer: every operation takes a state
// value and returns the next state, or the unchanged input and a typed
// validation error.
package ledger

import (
	"encoding/json"

	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

type handler func(models.State, json.RawMessage) (models.State, error)

var handlers = map[models.OperationType]handler{
	models.OpCreateSPV:                      bind(createSPV),
	models.OpEditSPV:                        bind(editSPV),
	models.OpDeleteSPV:                      bind(deleteSPV),
	models.OpCreateServiceProviderFeeType:   bind(createServiceProviderFeeType),
	models.OpEditServiceProviderFeeType:     bind(editServiceProviderFeeType),
	models.OpDeleteServiceProviderFeeType:   bind(deleteServiceProviderFeeType),
	models.OpCreateAccount:                  bind(createAccount),
	models.OpEditAccount:                    bind(editAccount),
	models.OpDeleteAccount:                  bind(deleteAccount),
	models.OpCreateFixedIncomeType:          bind(createFixedIncomeType),
	models.OpEditFixedIncomeType:            bind(editFixedIncomeType),
	models.OpDeleteFixedIncomeType:          bind(deleteFixedIncomeType),
	models.OpCreateFixedIncomeAsset:         bind(createFixedIncomeAsset),
	models.OpEditFixedIncomeAsset:           bind(editFixedIncomeAsset),
	models.OpDeleteFixedIncomeAsset:         bind(deleteFixedIncomeAsset),
	models.OpCreateCashAsset:                bind(createCashAsset),
	models.OpEditCashAsset:                  bind(editCashAsset),
	models.OpDeleteCashAsset:                bind(deleteCashAsset),
	models.OpCreateGroupTransaction:         bind(createGroupTransaction),
	models.OpEditGroupTransaction:           bind(editGroupTransaction),
	models.OpDeleteGroupTransaction:         bind(deleteGroupTransaction),
	models.OpAddFeesToGroupTransaction:      bind(addFeesToGroupTransaction),
	models.OpRemoveFeesFromGroupTransaction: bind(removeFeesFromGroupTransaction),
	models.OpEditGroupTransactionFees:       bind(editGroupTransactionFees),
}

// Apply decodes op and runs it against a private copy of state. On error
// the returned state is the input, untouched.
func Apply(state models.State, op models.Operation) (models.State, error) {
	h, ok := handlers[op.Type]
	if !ok {
		return state, apperrors.Malformed("Unknown operation type %q", op.Type)
	}
	return h(state, op.Input)
}

// Supported reports whether t names a known operation.
func Supported(t models.OperationType) bool {
	_, ok := handlers[t]
	return ok
}

func bind[I any](fn func(*models.State, I) error) handler {
	return func(state models.State, raw json.RawMessage) (models.State, error) {
		var in I
		if err := json.Unmarshal(raw, &in); err != nil {
			return state, apperrors.Malformed("Invalid operation input: %v", err)
		}
		return run(state, in, fn)
	}
}

func run[I any](state models.State, in I, fn func(*models.State, I) error) (models.State, error) {
	next := state.Clone()
	if err := fn(&next, in); err != nil {
		return state, err
	}
	return next, nil
}

func CreateSPV(state models.State, in models.CreateSPVInput) (models.State, error) {
	return run(state, in, createSPV)
}

func EditSPV(state models.State, in models.EditSPVInput) (models.State, error) {
	return run(state, in, editSPV)
}

func DeleteSPV(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteSPV)
}

func CreateServiceProviderFeeType(state models.State, in models.CreateServiceProviderFeeTypeInput) (models.State, error) {
	return run(state, in, createServiceProviderFeeType)
}

func EditServiceProviderFeeType(state models.State, in models.EditServiceProviderFeeTypeInput) (models.State, error) {
	return run(state, in, editServiceProviderFeeType)
}

func DeleteServiceProviderFeeType(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteServiceProviderFeeType)
}

func CreateAccount(state models.State, in models.CreateAccountInput) (models.State, error) {
	return run(state, in, createAccount)
}

func EditAccount(state models.State, in models.EditAccountInput) (models.State, error) {
	return run(state, in, editAccount)
}

func DeleteAccount(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteAccount)
}

func CreateFixedIncomeType(state models.State, in models.CreateFixedIncomeTypeInput) (models.State, error) {
	return run(state, in, createFixedIncomeType)
}

func EditFixedIncomeType(state models.State, in models.EditFixedIncomeTypeInput) (models.State, error) {
	return run(state, in, editFixedIncomeType)
}

func DeleteFixedIncomeType(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteFixedIncomeType)
}

func CreateFixedIncomeAsset(state models.State, in models.CreateFixedIncomeAssetInput) (models.State, error) {
	return run(state, in, createFixedIncomeAsset)
}

func EditFixedIncomeAsset(state models.State, in models.EditFixedIncomeAssetInput) (models.State, error) {
	return run(state, in, editFixedIncomeAsset)
}

func DeleteFixedIncomeAsset(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteFixedIncomeAsset)
}

func CreateCashAsset(state models.State, in models.CreateCashAssetInput) (models.State, error) {
	return run(state, in, createCashAsset)
}

func EditCashAsset(state models.State, in models.EditCashAssetInput) (models.State, error) {
	return run(state, in, editCashAsset)
}

func DeleteCashAsset(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteCashAsset)
}

func CreateGroupTransaction(state models.State, in models.CreateGroupTransactionInput) (models.State, error) {
	return run(state, in, createGroupTransaction)
}

func EditGroupTransaction(state models.State, in models.EditGroupTransactionInput) (models.State, error) {
	return run(state, in, editGroupTransaction)
}

func DeleteGroupTransaction(state models.State, in models.DeleteInput) (models.State, error) {
	return run(state, in, deleteGroupTransaction)
}

func AddFeesToGroupTransaction(state models.State, in models.AddFeesToGroupTransactionInput) (models.State, error) {
	return run(state, in, addFeesToGroupTransaction)
}

func RemoveFeesFromGroupTransaction(state models.State, in models.RemoveFeesFromGroupTransactionInput) (models.State, error) {
	return run(state, in, removeFeesFromGroupTransaction)
}

func EditGroupTransactionFees(state models.State, in models.EditGroupTransactionFeesInput) (models.State, error) {
	return run(state, in, editGroupTransactionFees)
}
