package models

import (
	"encoding/json"
	"time"
)

// OperationType names a ledger operation. Values are case-sensitive.
type OperationType string

const (
	OpCreateSPV                      OperationType = "CREATE_SPV"
	OpEditSPV                        OperationType = "EDIT_SPV"
	OpDeleteSPV                      OperationType = "DELETE_SPV"
	OpCreateServiceProviderFeeType   OperationType = "CREATE_SERVICE_PROVIDER_FEE_TYPE"
	OpEditServiceProviderFeeType     OperationType = "EDIT_SERVICE_PROVIDER_FEE_TYPE"
	OpDeleteServiceProviderFeeType   OperationType = "DELETE_SERVICE_PROVIDER_FEE_TYPE"
	OpCreateAccount                  OperationType = "CREATE_ACCOUNT"
	OpEditAccount                    OperationType = "EDIT_ACCOUNT"
	OpDeleteAccount                  OperationType = "DELETE_ACCOUNT"
	OpCreateFixedIncomeType          OperationType = "CREATE_FIXED_INCOME_TYPE"
	OpEditFixedIncomeType            OperationType = "EDIT_FIXED_INCOME_TYPE"
	OpDeleteFixedIncomeType          OperationType = "DELETE_FIXED_INCOME_TYPE"
	OpCreateFixedIncomeAsset         OperationType = "CREATE_FIXED_INCOME_ASSET"
	OpEditFixedIncomeAsset           OperationType = "EDIT_FIXED_INCOME_ASSET"
	OpDeleteFixedIncomeAsset         OperationType = "DELETE_FIXED_INCOME_ASSET"
	OpCreateCashAsset                OperationType = "CREATE_CASH_ASSET"
	OpEditCashAsset                  OperationType = "EDIT_CASH_ASSET"
	OpDeleteCashAsset                OperationType = "DELETE_CASH_ASSET"
	OpCreateGroupTransaction         OperationType = "CREATE_GROUP_TRANSACTION"
	OpEditGroupTransaction           OperationType = "EDIT_GROUP_TRANSACTION"
	OpDeleteGroupTransaction         OperationType = "DELETE_GROUP_TRANSACTION"
	OpAddFeesToGroupTransaction      OperationType = "ADD_FEES_TO_GROUP_TRANSACTION"
	OpRemoveFeesFromGroupTransaction OperationType = "REMOVE_FEES_FROM_GROUP_TRANSACTION"
	OpEditGroupTransactionFees       OperationType = "EDIT_GROUP_TRANSACTION_FEES"
)

// Operation is what the host submits to the ledger.
type Operation struct {
	Type  OperationType   `json:"type"`
	Input json.RawMessage `json:"input"`
}

// NewOperation encodes input as the operation payload.
func NewOperation(t OperationType, input any) (Operation, error) {
	b, err := json.Marshal(input)
	if err != nil {
		return Operation{}, err
	}
	return Operation{Type: t, Input: b}, nil
}

// MustOperation is NewOperation for inputs that always encode.
func MustOperation(t OperationType, input any) Operation {
	op, err := NewOperation(t, input)
	if err != nil {
		panic(err)
	}
	return op
}

// OperationRecord is one entry of a document's operation log.
type OperationRecord struct {
	ID         string          `json:"id"`
	DocumentID string          `json:"document_id"`
	Index      int             `json:"index"`
	Type       OperationType   `json:"type"`
	Input      json.RawMessage `json:"input"`
	CreatedAt  time.Time       `json:"created_at"`
}
