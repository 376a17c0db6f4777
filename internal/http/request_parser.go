// Request parsing helpers shared by the handlers: month selection with
// current-date defaults, and decimal amounts accepted as either a string
// ("47,50") or a JSON number.
package http

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// MonthParams holds the parsed period of a request.
type MonthParams struct {
	Year  int
	Month time.Month
}

func (p MonthParams) Period() core.Period {
	return core.Period{Year: p.Year, Month: p.Month}
}

// ParseMonthParams extracts year and month from query parameters, defaulting
// to the current date. An out-of-range month falls back to the current one.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: now.Month(),
	}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			params.Month = time.Month(m)
		}
	}

	return params
}

// ParseBool reads a query flag; anything but "1"/"true" is false.
func ParseBool(query url.Values, key string) bool {
	v := strings.TrimSpace(query.Get(key))
	return v == "1" || strings.EqualFold(v, "true")
}

// Amount accepts both "47,50" and 47.50 in request payloads.
type Amount struct {
	Cents int64
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		a.Cents = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		cents, err := core.ParseDecimalToCents(str)
		if err != nil {
			return err
		}
		a.Cents = cents
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	a.Cents = core.CentsFromFloat(f)
	return nil
}

func (a Amount) Money() core.Money {
	return core.Money{Cents: a.Cents}
}
