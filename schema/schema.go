// Package schema validates loosely typed request payloads against a declarative
// description of their fields and returns a normalized copy.
//
// Values are coerced the way a lenient JSON client expects: numeric strings are
// accepted for numbers, ISO-8601 strings or epoch milliseconds for dates. Fields
// not declared in a Schema are dropped from the output instead of rejected.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	String Kind = iota
	Int
	Number
	Bool
	Date
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "integer"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Date:
		return "date"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Field describes one payload key. Items applies to Array, Fields to Object.
type Field struct {
	Kind     Kind
	Required bool
	Enum     []any
	Default  any
	Items    *Field
	Fields   Schema
}

// Schema maps payload keys to their field descriptions.
type Schema map[string]Field

var validate = validator.New()

var (
	offsetLayouts = []string{time.RFC3339Nano}
	localLayouts  = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

	location = time.UTC
)

// SetLocation sets the zone used for dates written without an offset. Call it once at startup.
func SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	location = loc
}

// Validate checks payload against s. Every failing field is reported in a *ValidationError.
func (s Schema) Validate(payload map[string]any) (map[string]any, error) {
	var errs []FieldError
	out := s.normalizeObject("", payload, &errs)
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return out, nil
}

// FromQuery turns query parameters into a payload, keeping the first value of each key.
func FromQuery(values url.Values) map[string]any {
	payload := make(map[string]any, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			payload[key] = vals[0]
		}
	}
	return payload
}

func (s Schema) normalizeObject(prefix string, payload map[string]any, errs *[]FieldError) map[string]any {
	out := make(map[string]any, len(s))

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		field := s[name]
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		raw, present := payload[name]
		if !present || raw == nil {
			if field.Required {
				*errs = append(*errs, FieldError{Field: path, Constraint: "is required"})
			} else if field.Default != nil {
				out[name] = copyDefault(field.Default)
			}
			continue
		}

		if value, ok := field.normalize(path, raw, errs); ok {
			out[name] = value
		}
	}
	return out
}

func (f Field) normalize(path string, raw any, errs *[]FieldError) (any, bool) {
	fail := func(constraint string) (any, bool) {
		*errs = append(*errs, FieldError{Field: path, Constraint: constraint})
		return nil, false
	}

	var value any
	switch f.Kind {
	case String:
		s, ok := raw.(string)
		if !ok {
			return fail("must be a string")
		}
		if err := validate.Var(s, "required"); err != nil {
			return fail("must not be empty")
		}
		value = s
	case Int:
		n, ok := toFloat(raw)
		if !ok || n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return fail("must be an integer")
		}
		value = int(n)
	case Number:
		n, ok := toFloat(raw)
		if !ok {
			return fail("must be a number")
		}
		value = n
	case Bool:
		b, ok := toBool(raw)
		if !ok {
			return fail("must be a boolean")
		}
		value = b
	case Date:
		t, ok := toTime(raw)
		if !ok {
			return fail("must be a valid date")
		}
		value = t
	case Array:
		items, ok := raw.([]any)
		if !ok {
			return fail("must be an array")
		}
		before := len(*errs)
		normalized := make([]any, 0, len(items))
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if item == nil {
				*errs = append(*errs, FieldError{Field: itemPath, Constraint: "is required"})
				continue
			}
			if f.Items == nil {
				normalized = append(normalized, item)
				continue
			}
			if v, ok := f.Items.normalize(itemPath, item, errs); ok {
				normalized = append(normalized, v)
			}
		}
		if len(*errs) > before {
			return nil, false
		}
		value = normalized
	case Object:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fail("must be an object")
		}
		before := len(*errs)
		normalized := f.Fields.normalizeObject(path, obj, errs)
		if len(*errs) > before {
			return nil, false
		}
		value = normalized
	default:
		return fail("has an unsupported type")
	}

	if len(f.Enum) > 0 && !f.allows(value) {
		return fail(fmt.Sprintf("must be one of %s", f.enumList()))
	}
	return value, true
}

// allows reports enum membership through validator's oneof rule.
func (f Field) allows(value any) bool {
	switch value.(type) {
	case string, int:
		return validate.Var(value, "oneof="+f.oneofParam()) == nil
	}
	for _, allowed := range f.Enum {
		if fmt.Sprint(allowed) == fmt.Sprint(value) {
			return true
		}
	}
	return false
}

func (f Field) oneofParam() string {
	parts := make([]string, len(f.Enum))
	for i, v := range f.Enum {
		s := fmt.Sprint(v)
		if strings.ContainsAny(s, " ") {
			s = "'" + s + "'"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

func (f Field) enumList() string {
	parts := make([]string, len(f.Enum))
	for i, v := range f.Enum {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		n, err := v.Float64()
		return n, err == nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n, err == nil && !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	return 0, false
}

func toBool(raw any) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

func toTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case string:
		for _, layout := range offsetLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
		for _, layout := range localLayouts {
			if t, err := time.ParseInLocation(layout, v, location); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func copyDefault(v any) any {
	switch d := v.(type) {
	case []string:
		return append([]string{}, d...)
	case []any:
		return append([]any{}, d...)
	}
	return v
}
