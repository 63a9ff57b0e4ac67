package settings

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// validateStruct checks the required and oneof directives of v's exported
// fields. Errors are reported by settings key.
func validateStruct(v reflect.Value) []FieldError {
	var fieldErrors []FieldError
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tags := parseTag(field.Tag.Get("conf"))
		if fe, ok := checkField(v.Field(i), keyPath(field, tags), tags); !ok {
			fieldErrors = append(fieldErrors, fe)
		}
	}

	return fieldErrors
}

// checkField reports whether fv satisfies tags. Unset values only fail the
// required directive.
func checkField(fv reflect.Value, key string, tags tagConfig) (FieldError, bool) {
	if fv.IsZero() {
		if tags.required {
			return FieldError{FieldPath: key, Code: ErrCodeRequired, Message: "value is required"}, false
		}
		return FieldError{}, true
	}

	if len(tags.oneof) == 0 {
		return FieldError{}, true
	}

	values := []string{fmt.Sprint(fv.Interface())}
	if fv.Kind() == reflect.Slice {
		values = fv.Interface().([]string)
	}
	for _, value := range values {
		if !slices.Contains(tags.oneof, value) {
			return FieldError{
				FieldPath: key,
				Code:      ErrCodeOneOf,
				Message:   fmt.Sprintf("%q is not one of %s", value, strings.Join(tags.oneof, ", ")),
			}, false
		}
	}
	return FieldError{}, true
}
