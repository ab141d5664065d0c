package valuation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tropicaldog17/rwa/internal/models"
)

// CurrentValue interpolates the value of a Treasury Bill between its purchase
// date and maturity, where it is worth its net quantity:
//
//	(now - purchaseDate) / (maturity - purchaseDate) * (netQty - cpp) + cpp
//
// with cpp = purchaseProceeds - salesProceeds + realizedSurplus. ok is false
// when no value can be computed.
func CurrentValue(asset *models.FixedIncome, txs []models.GroupTransaction, types []models.FixedIncomeType, now time.Time) (value decimal.Decimal, ok bool) {
	if asset == nil || asset.Maturity == nil || *asset.Maturity == "" {
		return decimal.Zero, false
	}

	var typeName string
	found := false
	for _, t := range types {
		if t.ID == asset.FixedIncomeTypeID {
			typeName, found = t.Name, true
			break
		}
	}
	if !found || typeName != models.TreasuryBillTypeName {
		return decimal.Zero, false
	}

	var purchases, sales []models.GroupTransaction
	for _, tx := range txs {
		if tx.FixedIncomeAssetID() != asset.ID {
			continue
		}
		switch tx.Type {
		case models.AssetPurchase:
			purchases = append(purchases, tx)
		case models.AssetSale:
			sales = append(sales, tx)
		}
	}
	if len(purchases) == 0 && len(sales) == 0 {
		return decimal.Zero, false
	}

	maturity, err := models.ParseDateTime(*asset.Maturity)
	if err != nil || maturity.Before(now) {
		return decimal.Zero, false
	}
	if asset.PurchaseDate == "" {
		return decimal.Zero, false
	}
	purchased, err := models.ParseDateTime(asset.PurchaseDate)
	if err != nil {
		return decimal.Zero, false
	}
	span := maturity.UnixMilli() - purchased.UnixMilli()
	if span == 0 {
		return decimal.Zero, false
	}

	netQty := SumQuantity(purchases).Sub(SumQuantity(sales))
	cpp := asset.PurchaseProceeds.Sub(asset.SalesProceeds).Add(asset.RealizedSurplus)
	discount := netQty.Sub(cpp)

	elapsed := decimal.NewFromInt(now.UnixMilli() - purchased.UnixMilli())
	return elapsed.Div(decimal.NewFromInt(span)).Mul(discount).Add(cpp), true
}

// CurrentValues returns the current value of every fixed income asset in
// the portfolio, in portfolio order.
func CurrentValues(state models.State, now time.Time) []models.AssetValue {
	out := make([]models.AssetValue, 0, len(state.Portfolio))
	for _, a := range state.Portfolio {
		fi, isFixedIncome := a.(*models.FixedIncome)
		if !isFixedIncome {
			continue
		}
		av := models.AssetValue{AssetID: fi.ID, Name: fi.Name}
		if v, ok := CurrentValue(fi, state.Transactions, state.FixedIncomeTypes, now); ok {
			av.CurrentValue = &v
		}
		out = append(out, av)
	}
	return out
}
