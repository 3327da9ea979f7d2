package v1

import (
	"time"

	"github.com/budgetbook/backend/internal/transactions"
	bb_uuid "github.com/budgetbook/backend/internal/uuid"
	"github.com/budgetbook/backend/internal/validation"
)

type URIID struct {
	ID bb_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URIMonth struct {
	Month string `uri:"month" binding:"required" example:"2024-03"` // Month in YYYY-MM format
}

// QueryDateRange filters by date. Both dates are inclusive.
type QueryDateRange struct {
	Start string `form:"startDate" example:"2024-01-01"` // First day, YYYY-MM-DD or RFC 3339
	End   string `form:"endDate" example:"2024-03-31"`   // Last day, YYYY-MM-DD or RFC 3339
}

// parseDate parses a date in YYYY-MM-DD or RFC 3339 format. Plain dates
// are interpreted in loc.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (q QueryDateRange) model(loc *time.Location) (transactions.DateRange, error) {
	var dr transactions.DateRange

	if q.Start != "" {
		t, err := parseDate(q.Start, loc)
		if err != nil {
			return transactions.DateRange{}, validation.NewError("startDate", "invalid date format")
		}
		dr.Start = t
	}

	if q.End != "" {
		t, err := parseDate(q.End, loc)
		if err != nil {
			return transactions.DateRange{}, validation.NewError("endDate", "invalid date format")
		}
		dr.End = t
	}

	return dr, nil
}
