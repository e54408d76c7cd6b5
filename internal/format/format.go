// Package format holds the pure display transforms applied at render time.
package format

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"bergambar/internal/domain"
)

const placeholder = "/static/placeholder.svg"

// StatusLabel replaces underscores with spaces. Casing is left alone.
func StatusLabel(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// StatusVariant picks the badge style for an order or commission status.
func StatusVariant(s string) string {
	switch s {
	case "completed":
		return "default"
	case "in_progress":
		return "secondary"
	default:
		return "outline"
	}
}

// Currency renders "$" followed by the value with no thousands separator.
// Integers never get a decimal part; floats keep exactly the decimals they have.
func Currency(v any) string {
	switch n := v.(type) {
	case int:
		return "$" + strconv.Itoa(n)
	case int32:
		return "$" + strconv.FormatInt(int64(n), 10)
	case int64:
		return "$" + strconv.FormatInt(n, 10)
	case float32:
		return "$" + strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return "$" + strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return "$" + fmt.Sprint(v)
	}
}

// Rating renders the stored rating as-is (shortest exact decimal).
func Rating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// DateTime renders an RFC3339 timestamp as "Jan 15, 2024, 10:30 AM" in loc,
// or "Jan 15, 2024, 10:30" on a 24-hour clock. Input that does not parse is
// returned unchanged.
func DateTime(ts string, loc *time.Location, clock24h bool) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04:05", ts) // sqlite CURRENT_TIMESTAMP
		if err != nil {
			return ts
		}
	}
	if loc != nil {
		t = t.In(loc)
	}
	if clock24h {
		return t.Format("Jan 2, 2006, 15:04")
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// Relative humanizes t against now ("2 hours ago").
func Relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// ImageOr falls back to the sized placeholder when src is empty.
func ImageOr(src string, w, h int) string {
	if src != "" {
		return src
	}
	return placeholder + "?height=" + strconv.Itoa(h) + "&width=" + strconv.Itoa(w)
}

// TextOr returns fallback when s is blank.
func TextOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Initial is the first rune of name, used as the avatar fallback.
func Initial(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return "?"
	}
	return string(r)
}

// Dict builds a map from alternating keys and values so a template can
// pass several values to a nested template. Odd trailing keys are dropped.
func Dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}

// Funcs is the template func map. Dates render in loc.
func Funcs(loc *time.Location, clock24h bool) template.FuncMap {
	return template.FuncMap{
		"status":        StatusLabel,
		"statusVariant": StatusVariant,
		"currency":      Currency,
		"rating":        Rating,
		"datetime":      func(ts string) string { return DateTime(ts, loc, clock24h) },
		"imageOr":       ImageOr,
		"textOr":        TextOr,
		"initial":       Initial,
		"inc":           func(i int) int { return i + 1 },
		"owns": func(viewer any, ownerID int64) bool {
			u, _ := viewer.(*domain.User)
			return domain.Owns(u, ownerID)
		},
		"dict": Dict,
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}
}
