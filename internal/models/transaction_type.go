package models

// GroupTransactionType is the economic nature of a group transaction.
type GroupTransactionType string

const (
	AssetPurchase   GroupTransactionType = "AssetPurchase"
	AssetSale       GroupTransactionType = "AssetSale"
	PrincipalDraw   GroupTransactionType = "PrincipalDraw"
	PrincipalReturn GroupTransactionType = "PrincipalReturn"
	InterestIncome  GroupTransactionType = "InterestIncome"
	InterestPayment GroupTransactionType = "InterestPayment"
	FeesIncome      GroupTransactionType = "FeesIncome"
	FeesPayment     GroupTransactionType = "FeesPayment"
)

// TransactionCategory groups the eight transaction types in pairs.
type TransactionCategory string

const (
	CategoryAsset     TransactionCategory = "asset"
	CategoryPrincipal TransactionCategory = "principal"
	CategoryInterest  TransactionCategory = "interest"
	CategoryFees      TransactionCategory = "fees"
)

// AllGroupTransactionTypes lists every supported type, asset types first.
var AllGroupTransactionTypes = []GroupTransactionType{
	AssetPurchase, AssetSale,
	PrincipalDraw, PrincipalReturn,
	InterestIncome, InterestPayment,
	FeesPayment, FeesIncome,
}

var cashSignByType = map[GroupTransactionType]int64{
	AssetSale:       1,
	AssetPurchase:   -1,
	PrincipalDraw:   1,
	PrincipalReturn: -1,
	FeesIncome:      1,
	FeesPayment:     -1,
	InterestIncome:  1,
	InterestPayment: -1,
}

// IsValid reports whether t is one of the eight known types.
func (t GroupTransactionType) IsValid() bool {
	_, ok := cashSignByType[t]
	return ok
}

// CashSign is +1 for inflows and -1 for outflows. Unknown types return 0.
func (t GroupTransactionType) CashSign() int64 {
	return cashSignByType[t]
}

// Category returns the category of t, or "" when t is unknown.
func (t GroupTransactionType) Category() TransactionCategory {
	switch t {
	case AssetPurchase, AssetSale:
		return CategoryAsset
	case PrincipalDraw, PrincipalReturn:
		return CategoryPrincipal
	case InterestIncome, InterestPayment:
		return CategoryInterest
	case FeesIncome, FeesPayment:
		return CategoryFees
	}
	return ""
}

func (t GroupTransactionType) IsAsset() bool     { return t.Category() == CategoryAsset }
func (t GroupTransactionType) IsPrincipal() bool { return t.Category() == CategoryPrincipal }
func (t GroupTransactionType) IsInterest() bool  { return t.Category() == CategoryInterest }
func (t GroupTransactionType) IsFees() bool      { return t.Category() == CategoryFees }
