// Package valuation holds the pure formulas that derive cash balance changes
// and fixed income valuations from group transactions. Every amount is a
// decimal.Decimal; nothing here touches binary floating point.
package valuation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	apperrors "github.com/tropicaldog17/rwa/internal/errors"
	"github.com/tropicaldog17/rwa/internal/models"
)

var msPerDay = 24 * time.Hour

// CashBalanceChange is sign(type) * cashAmount - total fees.
func CashBalanceChange(t models.GroupTransactionType, cashAmount decimal.Decimal, fees []models.TransactionFee) (decimal.Decimal, error) {
	if t == "" {
		return decimal.Zero, apperrors.Missing("type", "Missing required fields: transactionType")
	}
	if !t.IsValid() {
		return decimal.Zero, apperrors.Rule("type", "Transaction type %s is not supported", t)
	}
	signed := cashAmount.Mul(decimal.NewFromInt(t.CashSign()))
	return signed.Sub(TotalFees(fees)), nil
}

// TotalFees sums the fee amounts. A nil slice totals zero.
func TotalFees(fees []models.TransactionFee) decimal.Decimal {
	total := decimal.Zero
	for _, f := range fees {
		total = total.Add(f.Amount)
	}
	return total
}

// UnitPrice is cashAmount / fixedIncomeAmount, or zero when either is zero.
func UnitPrice(cashAmount, fixedIncomeAmount decimal.Decimal) decimal.Decimal {
	if cashAmount.IsZero() || fixedIncomeAmount.IsZero() {
		return decimal.Zero
	}
	return cashAmount.Div(fixedIncomeAmount)
}

// SumGroupTransactionFees totals the fees of every transaction of type
// typeFilter. An empty filter matches all types.
func SumGroupTransactionFees(txs []models.GroupTransaction, typeFilter models.GroupTransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if typeFilter != "" && t.Type != typeFilter {
			continue
		}
		sum = sum.Add(TotalFees(t.Fees))
	}
	return sum
}

// SumCashTransactionsForType totals the cash leg amounts of type t.
func SumCashTransactionsForType(txs []models.GroupTransaction, t models.GroupTransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t {
			sum = sum.Add(tx.CashTransaction.Amount)
		}
	}
	return sum
}

// SumAssetTransactionsForType totals the fixed income leg quantities of type t.
func SumAssetTransactionsForType(txs []models.GroupTransaction, t models.GroupTransactionType) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == t && tx.FixedIncomeTransaction != nil {
			sum = sum.Add(tx.FixedIncomeTransaction.Amount)
		}
	}
	return sum
}

// SumQuantity totals the fixed income leg quantities regardless of type.
func SumQuantity(txs []models.GroupTransaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.FixedIncomeTransaction != nil {
			sum = sum.Add(tx.FixedIncomeTransaction.Amount)
		}
	}
	return sum
}

// SumQuantityTimesDate totals quantity * entry time in Unix milliseconds.
func SumQuantityTimesDate(txs []models.GroupTransaction) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range txs {
		leg := tx.FixedIncomeTransaction
		if leg == nil {
			continue
		}
		at, err := models.ParseDateTime(leg.EntryTime)
		if err != nil {
			return decimal.Zero, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		sum = sum.Add(decimal.NewFromInt(at.UnixMilli()).Mul(leg.Amount))
	}
	return sum, nil
}

func filterType(txs []models.GroupTransaction, t models.GroupTransactionType) []models.GroupTransaction {
	var out []models.GroupTransaction
	for _, tx := range txs {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}

// PurchaseDateTime is the quantity weighted average entry time of the
// purchases. ok is false when there are no purchases.
func PurchaseDateTime(txs []models.GroupTransaction, round bool) (at time.Time, ok bool, err error) {
	purchases := filterType(txs, models.AssetPurchase)
	if len(purchases) == 0 {
		return time.Time{}, false, nil
	}
	qty := SumQuantity(purchases)
	if qty.IsZero() {
		return time.Time{}, false, nil
	}
	weighted, err := SumQuantityTimesDate(purchases)
	if err != nil {
		return time.Time{}, false, err
	}
	ms := weighted.Div(qty).Round(0).IntPart()
	at = time.UnixMilli(ms).UTC()
	if round {
		at = RoundToNearestDay(at)
	}
	return at, true, nil
}

// PurchaseDate formats PurchaseDateTime, returning "" without purchases.
func PurchaseDate(txs []models.GroupTransaction, round bool) (string, error) {
	at, ok, err := PurchaseDateTime(txs, round)
	if err != nil || !ok {
		return "", err
	}
	return models.FormatDateTime(at), nil
}

// RoundToNearestDay truncates to midnight UTC and moves to the next day when
// the time of day is noon or later.
func RoundToNearestDay(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if t.Hour() >= 12 {
		day = day.Add(msPerDay)
	}
	return day
}

// Notional is purchase price * (purchased - sold quantity).
func Notional(txs []models.GroupTransaction) decimal.Decimal {
	purchased := SumAssetTransactionsForType(txs, models.AssetPurchase)
	sold := SumAssetTransactionsForType(txs, models.AssetSale)
	net := purchased.Sub(sold)
	if net.IsZero() {
		return decimal.Zero
	}
	return PurchasePrice(txs).Mul(net)
}

// AssetProceeds is sale cash minus purchase cash, fees excluded.
func AssetProceeds(txs []models.GroupTransaction) decimal.Decimal {
	return SumCashTransactionsForType(txs, models.AssetSale).
		Sub(SumCashTransactionsForType(txs, models.AssetPurchase))
}

// PurchaseProceeds is the cost of acquisition including fees.
func PurchaseProceeds(txs []models.GroupTransaction) decimal.Decimal {
	return SumCashTransactionsForType(txs, models.AssetPurchase).
		Add(SumGroupTransactionFees(txs, models.AssetPurchase))
}

// SalesProceeds is the amount received on disposal net of fees.
func SalesProceeds(txs []models.GroupTransaction) decimal.Decimal {
	return SumCashTransactionsForType(txs, models.AssetSale).
		Sub(SumGroupTransactionFees(txs, models.AssetSale))
}

// PurchasePrice is the cash spent per unit purchased, fees excluded.
func PurchasePrice(txs []models.GroupTransaction) decimal.Decimal {
	qty := SumAssetTransactionsForType(txs, models.AssetPurchase)
	if qty.IsZero() {
		return decimal.Zero
	}
	return SumCashTransactionsForType(txs, models.AssetPurchase).Div(qty)
}

// TotalDiscount is notional - (purchase proceeds - sales proceeds).
func TotalDiscount(txs []models.GroupTransaction) decimal.Decimal {
	return Notional(txs).Sub(PurchaseProceeds(txs).Sub(SalesProceeds(txs)))
}

// RealizedSurplus is sales proceeds over purchase proceeds, floored at zero.
func RealizedSurplus(txs []models.GroupTransaction) decimal.Decimal {
	surplus := SalesProceeds(txs).Sub(PurchaseProceeds(txs))
	if surplus.IsPositive() {
		return surplus
	}
	return decimal.Zero
}

// ComputeFixedIncomeDerivedFields derives every computed field of a fixed
// income asset from all of its transactions.
func ComputeFixedIncomeDerivedFields(txs []models.GroupTransaction) (models.DerivedFields, error) {
	purchaseDate, err := PurchaseDate(txs, true)
	if err != nil {
		return models.DerivedFields{}, err
	}
	return models.DerivedFields{
		PurchaseDate:     purchaseDate,
		Notional:         Notional(txs),
		AssetProceeds:    AssetProceeds(txs),
		PurchaseProceeds: PurchaseProceeds(txs),
		SalesProceeds:    SalesProceeds(txs),
		PurchasePrice:    PurchasePrice(txs),
		TotalDiscount:    TotalDiscount(txs),
		RealizedSurplus:  RealizedSurplus(txs),
	}, nil
}
