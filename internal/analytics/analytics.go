// Package analytics aggregates the transactions of a user into totals
// per category, month and year.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/transactions"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Uncategorized is the category name used for transactions whose category
// could not be resolved.
const Uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// PeriodTotal is the sum of absolute amounts in a month or a year.
type PeriodTotal struct {
	Period string          `json:"period" example:"2024-03"`                    // YYYY-MM for months, YYYY for years
	Total  decimal.Decimal `json:"total" example:"734.12" swaggertype:"string"` // Sum of absolute amounts
}

// Result is the aggregated view of a set of transactions.
type Result struct {
	CategoryTotals      map[string]decimal.Decimal `json:"categoryTotals" swaggertype:"object,string"`      // Sum of absolute amounts per category name
	CategoryPercentages map[string]decimal.Decimal `json:"categoryPercentages" swaggertype:"object,string"` // Share of each category in the total, in percent
	MonthlyTotals       []PeriodTotal              `json:"monthlyTotals"`                                   // Totals per month, oldest first
	YearlyTotals        []PeriodTotal              `json:"yearlyTotals"`                                    // Totals per year, oldest first
	MonthOverMonthTrend []decimal.NullDecimal      `json:"monthOverMonthTrend" swaggertype:"array,string"`  // Change to the previous month in percent, null if the previous month is zero
}

// Empty returns a result without any data.
func Empty() Result {
	return Result{
		CategoryTotals:      map[string]decimal.Decimal{},
		CategoryPercentages: map[string]decimal.Decimal{},
		MonthlyTotals:       []PeriodTotal{},
		YearlyTotals:        []PeriodTotal{},
		MonthOverMonthTrend: []decimal.NullDecimal{},
	}
}

// Compute aggregates the transactions. Months and years are determined
// in loc.
func Compute(txs []models.Transaction, loc *time.Location) Result {
	if loc == nil {
		loc = time.UTC
	}

	result := Empty()
	monthly := map[string]decimal.Decimal{}
	yearly := map[string]decimal.Decimal{}
	grand := decimal.Zero

	for _, t := range txs {
		amount := t.Amount.Abs()
		grand = grand.Add(amount)

		name := t.CategoryName()
		if name == "" {
			name = Uncategorized
		}
		result.CategoryTotals[name] = result.CategoryTotals[name].Add(amount)

		date := t.Date.In(loc)
		month := fmt.Sprintf("%04d-%02d", date.Year(), date.Month())
		year := fmt.Sprintf("%04d", date.Year())
		monthly[month] = monthly[month].Add(amount)
		yearly[year] = yearly[year].Add(amount)
	}

	for name, total := range result.CategoryTotals {
		if grand.IsZero() {
			result.CategoryPercentages[name] = decimal.Zero
			continue
		}
		result.CategoryPercentages[name] = total.Div(grand).Mul(hundred)
	}

	result.MonthlyTotals = sorted(monthly)
	result.YearlyTotals = sorted(yearly)
	result.MonthOverMonthTrend = trend(result.MonthlyTotals)

	return result
}

// sorted returns the totals ordered by period. Periods are zero padded,
// so lexical order is chronological.
func sorted(totals map[string]decimal.Decimal) []PeriodTotal {
	periods := make([]PeriodTotal, 0, len(totals))
	for period, total := range totals {
		periods = append(periods, PeriodTotal{Period: period, Total: total})
	}

	slices.SortFunc(periods, func(a, b PeriodTotal) int {
		return strings.Compare(a.Period, b.Period)
	})

	return periods
}

func trend(months []PeriodTotal) []decimal.NullDecimal {
	result := make([]decimal.NullDecimal, 0, len(months))
	for i, m := range months {
		if i == 0 {
			result = append(result, decimal.NewNullDecimal(decimal.Zero))
			continue
		}

		previous := months[i-1].Total
		if previous.IsZero() {
			result = append(result, decimal.NullDecimal{})
			continue
		}

		change := m.Total.Sub(previous).Div(previous).Mul(hundred)
		result = append(result, decimal.NewNullDecimal(change))
	}

	return result
}

// Service loads transactions and aggregates them.
type Service struct {
	transactions *transactions.Repository
}

// NewService returns an analytics service reading from repo.
func NewService(repo *transactions.Repository) *Service {
	return &Service{transactions: repo}
}

// Fetch aggregates the transactions of the user in the date range.
//
// If the transactions cannot be loaded, an empty result is returned
// together with the error so that callers can still render it.
func (s *Service) Fetch(ctx context.Context, userID uuid.UUID, dr transactions.DateRange) (Result, error) {
	txs, err := s.transactions.ListAscending(ctx, userID, dr)
	if err != nil {
		if errors.Is(err, models.ErrNoUser) || validation.IsValidationError(err) {
			return Empty(), err
		}

		log.Ctx(ctx).Error().Err(err).Str("user", userID.String()).Msg("fetching analytics data failed")
		return Empty(), models.WrapOperation("failed to load analytics data", err)
	}

	return Compute(txs, s.transactions.Location()), nil
}
