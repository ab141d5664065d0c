package models

import "github.com/shopspring/decimal"

// Edit inputs are change sets: a nil pointer leaves the field untouched.

type CreateSPVInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EditSPVInput struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type CreateAccountInput struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	Label     *string `json:"label"`
}

type EditAccountInput struct {
	ID        string  `json:"id"`
	Reference *string `json:"reference"`
	Label     *string `json:"label"`
}

type CreateServiceProviderFeeTypeInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FeeType   string `json:"feeType"`
	AccountID string `json:"accountId"`
}

type EditServiceProviderFeeTypeInput struct {
	ID        string  `json:"id"`
	Name      *string `json:"name"`
	FeeType   *string `json:"feeType"`
	AccountID *string `json:"accountId"`
}

type CreateFixedIncomeTypeInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EditFixedIncomeTypeInput struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

type CreateFixedIncomeAssetInput struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	SPVID             string           `json:"spvId"`
	FixedIncomeTypeID string           `json:"fixedIncomeTypeId"`
	Maturity          *string          `json:"maturity"`
	ISIN              *string          `json:"ISIN"`
	CUSIP             *string          `json:"CUSIP"`
	Coupon            *decimal.Decimal `json:"coupon"`
}

// EditFixedIncomeAssetInput carries only the descriptive fields; derived
// fields cannot be edited.
type EditFixedIncomeAssetInput struct {
	ID                string           `json:"id"`
	Name              *string          `json:"name"`
	SPVID             *string          `json:"spvId"`
	FixedIncomeTypeID *string          `json:"fixedIncomeTypeId"`
	Maturity          *string          `json:"maturity"`
	ISIN              *string          `json:"ISIN"`
	CUSIP             *string          `json:"CUSIP"`
	Coupon            *decimal.Decimal `json:"coupon"`
}

type CreateCashAssetInput struct {
	ID       string `json:"id"`
	SPVID    string `json:"spvId"`
	Currency string `json:"currency"`
}

type EditCashAssetInput struct {
	ID       string  `json:"id"`
	SPVID    *string `json:"spvId"`
	Currency *string `json:"currency"`
}

// DeleteInput identifies the entity to remove for every DELETE_* operation.
type DeleteInput struct {
	ID string `json:"id"`
}

type CreateGroupTransactionInput struct {
	ID                       string               `json:"id"`
	Type                     GroupTransactionType `json:"type"`
	EntryTime                string               `json:"entryTime"`
	ServiceProviderFeeTypeID *string              `json:"serviceProviderFeeTypeId"`
	TxRef                    *string              `json:"txRef"`
	Fees                     []TransactionFee     `json:"fees"`
	CashTransaction          BaseTransaction      `json:"cashTransaction"`
	FixedIncomeTransaction   *BaseTransaction     `json:"fixedIncomeTransaction"`
}

// EditBaseTransactionInput is the editable subset of a transaction leg.
// AssetID is only honoured on the fixed income leg.
type EditBaseTransactionInput struct {
	Amount  *decimal.Decimal `json:"amount"`
	AssetID *string          `json:"assetId"`
}

type EditGroupTransactionInput struct {
	ID                       string                    `json:"id"`
	Type                     *GroupTransactionType     `json:"type"`
	EntryTime                *string                   `json:"entryTime"`
	ServiceProviderFeeTypeID *string                   `json:"serviceProviderFeeTypeId"`
	TxRef                    *string                   `json:"txRef"`
	CashTransaction          *EditBaseTransactionInput `json:"cashTransaction"`
	FixedIncomeTransaction   *EditBaseTransactionInput `json:"fixedIncomeTransaction"`
}

type AddFeesToGroupTransactionInput struct {
	ID   string           `json:"id"`
	Fees []TransactionFee `json:"fees"`
}

type RemoveFeesFromGroupTransactionInput struct {
	ID     string   `json:"id"`
	FeeIDs []string `json:"feeIds"`
}

type EditTransactionFeeInput struct {
	ID                       string           `json:"id"`
	ServiceProviderFeeTypeID *string          `json:"serviceProviderFeeTypeId"`
	Amount                   *decimal.Decimal `json:"amount"`
}

type EditGroupTransactionFeesInput struct {
	ID   string                    `json:"id"`
	Fees []EditTransactionFeeInput `json:"fees"`
}
