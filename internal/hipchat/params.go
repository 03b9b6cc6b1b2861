package hipchat

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Params is a loosely typed request or response body. Responses decode
// numbers as json.Number so ids survive a round trip unchanged.
type Params map[string]any

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	dup := make(Params, len(p))
	for k, v := range p {
		dup[k] = v
	}
	return dup
}

// String returns p[key] rendered as a string, or "" when absent.
func (p Params) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return formatValue(v)
}

// merge layers sources left to right; later sources win on key conflicts.
func merge(sources ...Params) Params {
	out := Params{}
	for _, src := range sources {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}

// intersect keeps only the keys named in allowed.
func intersect(p Params, allowed []string) Params {
	out := Params{}
	for _, k := range allowed {
		if v, ok := p[k]; ok {
			out[k] = v
		}
	}
	return out
}

// keys returns the key set of p.
func keys(p Params) []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	return out
}

// queryValues encodes p as query parameters. Nil values are omitted.
func queryValues(p Params) url.Values {
	values := url.Values{}
	for k, v := range p {
		if v == nil {
			continue
		}
		values.Set(k, formatValue(v))
	}
	return values
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// resourcePath joins escaped segments with "/".
func resourcePath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return strings.Join(escaped, "/")
}

// requireID rejects empty identifiers before any request is issued.
func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", ErrMissingIdentifier, name)
	}
	return nil
}
