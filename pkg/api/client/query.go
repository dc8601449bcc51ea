package client

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value any
}

// Query is an ordered list of query parameters. Values may be scalars,
// booleans or lists; nil values are dropped and lists are comma-joined.
type Query []Param

// Set appends key=value and returns the extended query.
func (q Query) Set(key string, value any) Query {
	return append(q, Param{Key: key, Value: value})
}

// Encode renders the query string in insertion order. Nil values and empty
// lists are omitted.
func (q Query) Encode() string {
	var b strings.Builder
	for _, p := range q {
		value, ok := formatValue(p.Value)
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}
	return b.String()
}

func formatValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case Multi:
		return joinList([]string(val))
	case []string:
		return joinList(val)
	case time.Time:
		return val.Format(time.RFC3339), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return "", false
		}
		return formatValue(rv.Elem().Interface())
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String(), true
	}
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := formatValue(rv.Index(i).Interface()); ok {
				items = append(items, s)
			}
		}
		return joinList(items)
	}
	return fmt.Sprint(v), true
}

func joinList(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ","), true
}
