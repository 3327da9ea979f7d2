// Package types implements value types shared by models and controllers.
package types

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidMonth is returned when a string cannot be parsed as a month.
var ErrInvalidMonth = errors.New("invalid date format")

// Month is the first day of a month in a specific year, stored as a date.
type Month time.Time

// NewMonth returns a new Month.
func NewMonth(year int, month time.Month) Month {
	return Month(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// MonthOf returns the Month in which a time occurs in that time's location.
func MonthOf(t time.Time) Month {
	year, month, _ := t.Date()
	return NewMonth(year, month)
}

// ParseMonth parses user input into a Month.
//
// Accepted are "2006-01", "2006-01-02" and RFC 3339 timestamps. For
// timestamps, the month is taken in the timestamp's own offset.
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)

	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339Nano} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return MonthOf(t), nil
		}
	}

	return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", time.Time(m).Year(), time.Time(m).Month())
}

// Time returns the first instant of the month in UTC.
func (m Month) Time() time.Time {
	return time.Time(m)
}

// Range returns the first instant of the month and the first instant of
// the following month in loc.
func (m Month) Range(loc *time.Location) (time.Time, time.Time) {
	start := time.Date(time.Time(m).Year(), time.Time(m).Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MarshalJSON implements the json.Marshaler interface.
// Months are serialized as full dates of their first day.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(m).Format(time.DateOnly) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Month) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		return nil
	}

	month, err := ParseMonth(value)
	if err != nil {
		return err
	}

	*m = month
	return nil
}

// Scan writes the value from the database.
func (m *Month) Scan(value any) error {
	// sqlite returns dates as strings with some drivers
	if s, ok := value.(string); ok {
		if len(s) > 10 {
			s = s[:10]
		}

		month, err := ParseMonth(s)
		if err != nil {
			return err
		}
		*m = month
		return nil
	}

	nullTime := &sql.NullTime{}
	err := nullTime.Scan(value)
	*m = MonthOf(nullTime.Time.UTC())
	return err
}

// Value returns the value for the SQL driver to write to the database.
func (m Month) Value() (driver.Value, error) {
	year, month, _ := time.Time(m).Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}

// GormDataType defines the data type used by gorm the type.
func (Month) GormDataType() string {
	return "date"
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return time.Time(m).IsZero()
}

// AddDate adds a specified amount of years and months.
func (m Month) AddDate(years, months int) Month {
	return Month(time.Time(m).AddDate(years, months, 0))
}

// Before reports whether the month instant m is before n.
func (m Month) Before(n Month) bool {
	return time.Time(m).Before(time.Time(n))
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return time.Time(m).Equal(time.Time(n))
}

// Contains reports whether the time instant is in the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == time.Time(m).Year() && t.Month() == time.Time(m).Month()
}
