package client

import (
	"strings"
	"time"
)

// Multi is a scalar-or-list filter value. It is always sent as a single
// comma-joined query parameter and omitted when empty.
type Multi []string

// One builds a single-value filter. A blank value yields an empty filter.
func One(value string) Multi {
	return Many(value)
}

// Many builds a filter from values, dropping blanks.
func Many(values ...string) Multi {
	out := make(Multi, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseMulti splits a comma-separated flag value into a filter.
func ParseMulti(raw string) Multi {
	return Many(strings.Split(raw, ",")...)
}

// Pagination is embedded by list filters.
type Pagination struct {
	Limit int
	Page  int
}

func (p Pagination) apply(q Query) Query {
	if p.Limit > 0 {
		q = q.Set("limit", p.Limit)
	}
	if p.Page > 0 {
		q = q.Set("page", p.Page)
	}
	return q
}

// DateRange bounds list results by date, inclusive. Zero values are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

const dateLayout = "2006-01-02"

func (r DateRange) apply(q Query) Query {
	if !r.From.IsZero() {
		q = q.Set("from", r.From.Format(dateLayout))
	}
	if !r.To.IsZero() {
		q = q.Set("to", r.To.Format(dateLayout))
	}
	return q
}

// setIf appends key=value only when value is not blank.
func setIf(q Query, key, value string) Query {
	if strings.TrimSpace(value) == "" {
		return q
	}
	return q.Set(key, strings.TrimSpace(value))
}

func setID(q Query, key string, id int64) Query {
	if id <= 0 {
		return q
	}
	return q.Set(key, id)
}

func setMulti(q Query, key string, values Multi) Query {
	if len(values) == 0 {
		return q
	}
	return q.Set(key, values)
}
