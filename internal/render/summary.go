package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// topCategoryCount caps the per-currency category breakdown.
const topCategoryCount = 5

// CategoryTotal is one line of the expense breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CurrencyTotals aggregates one currency's slice of a period. Summaries never
// convert between currencies; each currency gets its own block.
type CurrencyTotals struct {
	Currency string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Net      decimal.Decimal
	Top      []CategoryTotal
}

// Aggregate folds transactions into per-currency totals with a top-category
// expense breakdown. Debt counts as money out, debt payment as money in.
// An optional category filter keeps only matching expenses.
func Aggregate(txs []models.Transaction, category string) []CurrencyTotals {
	type bucket struct {
		income, expense decimal.Decimal
		byCategory      map[string]decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, tx := range txs {
		if category != "" && tx.Category != category {
			continue
		}
		b := buckets[tx.Currency]
		if b == nil {
			b = &bucket{byCategory: make(map[string]decimal.Decimal)}
			buckets[tx.Currency] = b
		}
		switch tx.Kind {
		case models.TxIncome, models.TxDebtPayment:
			b.income = b.income.Add(tx.Amount)
		default:
			b.expense = b.expense.Add(tx.Amount)
			b.byCategory[tx.Category] = b.byCategory[tx.Category].Add(tx.Amount)
		}
	}

	currencies := make([]string, 0, len(buckets))
	for cur := range buckets {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	totals := make([]CurrencyTotals, 0, len(currencies))
	for _, cur := range currencies {
		b := buckets[cur]
		totals = append(totals, CurrencyTotals{
			Currency: cur,
			Income:   b.income,
			Expense:  b.expense,
			Net:      b.income.Sub(b.expense),
			Top:      topCategories(b.byCategory),
		})
	}
	return totals
}

func topCategories(byCategory map[string]decimal.Decimal) []CategoryTotal {
	list := make([]CategoryTotal, 0, len(byCategory))
	for cat, total := range byCategory {
		list = append(list, CategoryTotal{Category: cat, Total: total})
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Total.Equal(list[j].Total) {
			return list[i].Total.GreaterThan(list[j].Total)
		}
		return list[i].Category < list[j].Category
	})
	if len(list) > topCategoryCount {
		list = list[:topCategoryCount]
	}
	return list
}

// Summary renders per-currency totals for a period. A non-empty assumed
// currency adds a caveat that the user never chose a base currency.
func (r *Renderer) Summary(totals []CurrencyTotals, label, category, lang, assumed string) string {
	if len(totals) == 0 {
		if lang == "ru" {
			return fmt.Sprintf("Записей %s нет.", periodPhrase(label, lang))
		}
		return fmt.Sprintf("No records %s.", periodPhrase(label, lang))
	}

	var b strings.Builder
	if lang == "ru" {
		b.WriteString("📊 Сводка " + periodPhrase(label, lang))
	} else {
		b.WriteString("📊 Summary " + periodPhrase(label, lang))
	}
	if category != "" {
		b.WriteString(" • " + category)
	}
	b.WriteString("\n")

	for i, ct := range totals {
		if i > 0 {
			b.WriteString("\n")
		}
		if len(totals) > 1 {
			b.WriteString(ct.Currency + ":\n")
		}
		if lang == "ru" {
			b.WriteString(fmt.Sprintf("Доход: %s\n", Money(ct.Income, ct.Currency)))
			b.WriteString(fmt.Sprintf("Расход: %s\n", Money(ct.Expense, ct.Currency)))
			b.WriteString(fmt.Sprintf("Итого: %s\n", Money(ct.Net, ct.Currency)))
		} else {
			b.WriteString(fmt.Sprintf("Income: %s\n", Money(ct.Income, ct.Currency)))
			b.WriteString(fmt.Sprintf("Spent: %s\n", Money(ct.Expense, ct.Currency)))
			b.WriteString(fmt.Sprintf("Net: %s\n", Money(ct.Net, ct.Currency)))
		}
		if len(ct.Top) > 0 {
			if lang == "ru" {
				b.WriteString("Топ категорий:\n")
			} else {
				b.WriteString("Top categories:\n")
			}
			for _, c := range ct.Top {
				b.WriteString(fmt.Sprintf("- %s: %s\n", c.Category, Money(c.Total, ct.Currency)))
			}
		}
	}

	if assumed != "" {
		if lang == "ru" {
			b.WriteString("\nБазовая валюта не выбрана, считаю в " + assumed + ".")
		} else {
			b.WriteString("\nNo base currency set, counting in " + assumed + ".")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
