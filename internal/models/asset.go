package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetType discriminates the portfolio union.
type AssetType string

const (
	AssetTypeCash        AssetType = "Cash"
	AssetTypeFixedIncome AssetType = "FixedIncome"
)

// CurrencyUSD is the only supported cash currency.
const CurrencyUSD = "USD"

// TreasuryBillTypeName is the fixed income type name for which a current
// value can be interpolated.
const TreasuryBillTypeName = "Treasury Bill"

// Asset is either a *Cash or a *FixedIncome.
type Asset interface {
	AssetID() string
	AssetSPVID() string
	Kind() AssetType
	CloneAsset() Asset
}

// Cash is the portfolio's cash position. Balance only moves with transactions.
type Cash struct {
	Type     AssetType       `json:"type"`
	ID       string          `json:"id"`
	SPVID    string          `json:"spvId"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

func (c *Cash) AssetID() string    { return c.ID }
func (c *Cash) AssetSPVID() string { return c.SPVID }
func (c *Cash) Kind() AssetType    { return AssetTypeCash }

func (c *Cash) CloneAsset() Asset {
	cp := *c
	return &cp
}

// FixedIncome is a fixed income position. Every field from PurchaseDate down
// is derived from the transactions that reference the asset.
type FixedIncome struct {
	Type              AssetType        `json:"type"`
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	SPVID             string           `json:"spvId"`
	FixedIncomeTypeID string           `json:"fixedIncomeTypeId"`
	Maturity          *string          `json:"maturity"`
	ISIN              *string          `json:"ISIN"`
	CUSIP             *string          `json:"CUSIP"`
	Coupon            *decimal.Decimal `json:"coupon"`

	PurchaseDate     string          `json:"purchaseDate"`
	Notional         decimal.Decimal `json:"notional"`
	AssetProceeds    decimal.Decimal `json:"assetProceeds"`
	PurchaseProceeds decimal.Decimal `json:"purchaseProceeds"`
	SalesProceeds    decimal.Decimal `json:"salesProceeds"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	RealizedSurplus  decimal.Decimal `json:"realizedSurplus"`
}

func (f *FixedIncome) AssetID() string    { return f.ID }
func (f *FixedIncome) AssetSPVID() string { return f.SPVID }
func (f *FixedIncome) Kind() AssetType    { return AssetTypeFixedIncome }

func (f *FixedIncome) CloneAsset() Asset {
	cp := *f
	cp.Maturity = cloneString(f.Maturity)
	cp.ISIN = cloneString(f.ISIN)
	cp.CUSIP = cloneString(f.CUSIP)
	if f.Coupon != nil {
		c := *f.Coupon
		cp.Coupon = &c
	}
	return &cp
}

// DerivedFields holds the values recomputed from an asset's transactions.
type DerivedFields struct {
	PurchaseDate     string          `json:"purchaseDate"`
	Notional         decimal.Decimal `json:"notional"`
	AssetProceeds    decimal.Decimal `json:"assetProceeds"`
	PurchaseProceeds decimal.Decimal `json:"purchaseProceeds"`
	SalesProceeds    decimal.Decimal `json:"salesProceeds"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	TotalDiscount    decimal.Decimal `json:"totalDiscount"`
	RealizedSurplus  decimal.Decimal `json:"realizedSurplus"`
}

// Derived returns the asset's current derived fields.
func (f *FixedIncome) Derived() DerivedFields {
	return DerivedFields{
		PurchaseDate:     f.PurchaseDate,
		Notional:         f.Notional,
		AssetProceeds:    f.AssetProceeds,
		PurchaseProceeds: f.PurchaseProceeds,
		SalesProceeds:    f.SalesProceeds,
		PurchasePrice:    f.PurchasePrice,
		TotalDiscount:    f.TotalDiscount,
		RealizedSurplus:  f.RealizedSurplus,
	}
}

// WithDerived returns a copy of f carrying d.
func (f *FixedIncome) WithDerived(d DerivedFields) *FixedIncome {
	cp := f.CloneAsset().(*FixedIncome)
	cp.PurchaseDate = d.PurchaseDate
	cp.Notional = d.Notional
	cp.AssetProceeds = d.AssetProceeds
	cp.PurchaseProceeds = d.PurchaseProceeds
	cp.SalesProceeds = d.SalesProceeds
	cp.PurchasePrice = d.PurchasePrice
	cp.TotalDiscount = d.TotalDiscount
	cp.RealizedSurplus = d.RealizedSurplus
	return cp
}

// Equal compares derived fields numerically.
func (d DerivedFields) Equal(o DerivedFields) bool {
	return d.PurchaseDate == o.PurchaseDate &&
		d.Notional.Equal(o.Notional) &&
		d.AssetProceeds.Equal(o.AssetProceeds) &&
		d.PurchaseProceeds.Equal(o.PurchaseProceeds) &&
		d.SalesProceeds.Equal(o.SalesProceeds) &&
		d.PurchasePrice.Equal(o.PurchasePrice) &&
		d.TotalDiscount.Equal(o.TotalDiscount) &&
		d.RealizedSurplus.Equal(o.RealizedSurplus)
}

// Portfolio is the ordered list of assets. It encodes as a JSON array of
// objects tagged with "type".
type Portfolio []Asset

func (p *Portfolio) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Portfolio, 0, len(raw))
	for i, item := range raw {
		var head struct {
			Type     AssetType `json:"type"`
			Currency *string   `json:"currency"`
		}
		if err := json.Unmarshal(item, &head); err != nil {
			return fmt.Errorf("portfolio[%d]: %w", i, err)
		}
		kind := head.Type
		if kind == "" && head.Currency != nil {
			kind = AssetTypeCash
		}
		switch kind {
		case AssetTypeCash:
			var c Cash
			if err := json.Unmarshal(item, &c); err != nil {
				return fmt.Errorf("portfolio[%d]: %w", i, err)
			}
			c.Type = AssetTypeCash
			out = append(out, &c)
		case AssetTypeFixedIncome, "":
			var f FixedIncome
			if err := json.Unmarshal(item, &f); err != nil {
				return fmt.Errorf("portfolio[%d]: %w", i, err)
			}
			f.Type = AssetTypeFixedIncome
			out = append(out, &f)
		default:
			return fmt.Errorf("portfolio[%d]: unknown asset type %q", i, head.Type)
		}
	}
	*p = out
	return nil
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
