package repository

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun/schema"
)

// ListCriteria narrows a list query. Filters map column names to exact
// values; nil values and (in permissive mode) unknown columns are
// dropped before the query is built.
type ListCriteria struct {
	Skip    int
	Limit   int
	Filters map[string]any
}

type assignment struct {
	column string
	value  any
}

// resolveFilters turns a filter set into column assignments, applying
// the unknown-field policy. Output is sorted so generated SQL is stable.
func (r *repo[T]) resolveFilters(filters map[string]any) ([]assignment, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	out := make([]assignment, 0, len(filters))
	for name, value := range filters {
		if value == nil {
			continue
		}

		field, ok := r.table.FieldMap[name]
		if !ok {
			if r.strict {
				return nil, errors.New("unknown filter field: "+name, errors.CategoryValidation).
					WithTextCode(TextCodeUnknownField)
			}
			continue
		}

		coerced, err := coerceValue(field, value)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{column: field.Name, value: coerced})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].column < out[j].column })
	return out, nil
}

// resolvePatch validates a partial-update payload. The primary key is
// never updatable; unknown fields follow the same policy as filters.
func (r *repo[T]) resolvePatch(patch map[string]any) ([]assignment, error) {
	if len(patch) == 0 {
		return nil, nil
	}

	out := make([]assignment, 0, len(patch))
	for name, value := range patch {
		field, ok := r.table.FieldMap[name]
		if !ok {
			if r.strict {
				return nil, errors.New("unknown update field: "+name, errors.CategoryValidation).
					WithTextCode(TextCodeUnknownField)
			}
			continue
		}

		if field.Name == r.pk.Name {
			if r.strict {
				return nil, errors.New("primary key is immutable", errors.CategoryValidation).
					WithTextCode(TextCodeImmutableField)
			}
			continue
		}

		coerced, err := coerceValue(field, value)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{column: field.Name, value: coerced})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].column < out[j].column })
	return out, nil
}

// coerceValue reshapes a decoded JSON value into the field's Go type,
// rejecting type mismatches before anything reaches the backend. nil
// passes through as NULL.
func coerceValue(field *schema.Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	target := field.IndirectType
	rv := reflect.ValueOf(value)

	if rv.Type() == target {
		return value, nil
	}

	// time columns arrive as RFC3339 strings from JSON bodies
	if target == reflect.TypeOf(time.Time{}) {
		if s, ok := value.(string); ok {
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, typeError(field, value)
			}
			return ts, nil
		}
		return nil, typeError(field, value)
	}

	switch target.Kind() {
	case reflect.String:
		if rv.Kind() == reflect.String {
			return rv.Convert(target).Interface(), nil
		}
	case reflect.Bool:
		switch rv.Kind() {
		case reflect.Bool:
			return rv.Bool(), nil
		case reflect.String:
			// query parameters always arrive as strings
			if b, err := strconv.ParseBool(rv.String()); err == nil {
				return b, nil
			}
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if f != math.Trunc(f) {
				return nil, typeError(field, value)
			}
			return int64(f), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return rv.Int(), nil
		case reflect.String:
			if n, err := strconv.ParseInt(rv.String(), 10, 64); err == nil {
				return n, nil
			}
		}
	case reflect.Float32, reflect.Float64:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return rv.Float(), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(rv.Int()), nil
		case reflect.String:
			if f, err := strconv.ParseFloat(rv.String(), 64); err == nil {
				return f, nil
			}
		}
	default:
		// Maps, slices and struct columns are handed to bun untouched;
		// the driver reports anything it cannot encode.
		return value, nil
	}

	return nil, typeError(field, value)
}

func typeError(field *schema.Field, value any) error {
	return errors.New("wrong type for field "+field.Name, errors.CategoryValidation).
		WithTextCode(TextCodeInvalidPayload).
		WithMetadata(map[string]any{
			"field": field.Name,
			"value": value,
		})
}
