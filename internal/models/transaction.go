package models

import (
	"github.com/shopspring/decimal"
)

// BaseTransaction is one leg of a group transaction: the cash leg or the
// fixed income leg.
type BaseTransaction struct {
	ID                    string          `json:"id"`
	AssetType             AssetType       `json:"assetType"`
	AssetID               string          `json:"assetId"`
	Amount                decimal.Decimal `json:"amount"`
	EntryTime             string          `json:"entryTime"`
	AccountID             *string         `json:"accountId"`
	CounterPartyAccountID *string         `json:"counterPartyAccountId"`
	TradeTime             *string         `json:"tradeTime"`
	SettlementTime        *string         `json:"settlementTime"`
}

// Clone returns a deep copy of b.
func (b BaseTransaction) Clone() BaseTransaction {
	b.AccountID = cloneString(b.AccountID)
	b.CounterPartyAccountID = cloneString(b.CounterPartyAccountID)
	b.TradeTime = cloneString(b.TradeTime)
	b.SettlementTime = cloneString(b.SettlementTime)
	return b
}

// TransactionFee is an extra amount deducted from the cash leg.
type TransactionFee struct {
	ID                       string          `json:"id"`
	ServiceProviderFeeTypeID string          `json:"serviceProviderFeeTypeId"`
	Amount                   decimal.Decimal `json:"amount"`
}

// GroupTransaction is one recorded economic event. CashBalanceChange and
// UnitPrice are derived and cached on the transaction.
type GroupTransaction struct {
	ID                       string               `json:"id"`
	Type                     GroupTransactionType `json:"type"`
	EntryTime                string               `json:"entryTime"`
	CashBalanceChange        decimal.Decimal      `json:"cashBalanceChange"`
	UnitPrice                *decimal.Decimal     `json:"unitPrice"`
	ServiceProviderFeeTypeID *string              `json:"serviceProviderFeeTypeId"`
	TxRef                    *string              `json:"txRef"`
	Fees                     []TransactionFee     `json:"fees"`
	CashTransaction          BaseTransaction      `json:"cashTransaction"`
	FixedIncomeTransaction   *BaseTransaction     `json:"fixedIncomeTransaction"`
}

// Clone returns a deep copy of t. A nil fee list stays nil.
func (t GroupTransaction) Clone() GroupTransaction {
	if t.UnitPrice != nil {
		u := *t.UnitPrice
		t.UnitPrice = &u
	}
	t.ServiceProviderFeeTypeID = cloneString(t.ServiceProviderFeeTypeID)
	t.TxRef = cloneString(t.TxRef)
	if t.Fees != nil {
		t.Fees = append(make([]TransactionFee, 0, len(t.Fees)), t.Fees...)
	}
	t.CashTransaction = t.CashTransaction.Clone()
	if t.FixedIncomeTransaction != nil {
		fi := t.FixedIncomeTransaction.Clone()
		t.FixedIncomeTransaction = &fi
	}
	return t
}

// FixedIncomeAssetID returns the asset referenced by the fixed income leg,
// or "" when there is none.
func (t GroupTransaction) FixedIncomeAssetID() string {
	if t.FixedIncomeTransaction == nil {
		return ""
	}
	return t.FixedIncomeTransaction.AssetID
}

// FeeIndex returns the position of the fee with the given id, or -1.
func (t GroupTransaction) FeeIndex(id string) int {
	for i, f := range t.Fees {
		if f.ID == id {
			return i
		}
	}
	return -1
}
