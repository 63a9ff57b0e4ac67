package settings

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Azhovan/layerenv/internal/normalize"
)

// tagConfig holds parsed directives from a struct field's `conf` tag.
type tagConfig struct {
	name       string   // Custom key path (name:log.level)
	defValue   string   // Default value (default:value)
	oneof      []string // Allowed values (oneof:a,b,c)
	required   bool     // Field is required (required or required:true)
	hasDefault bool     // Whether a default directive was present
}

// knownDirectives are the directive names a `conf` tag may contain.
var knownDirectives = []string{"name:", "default:", "oneof:", "required"}

// parseTag parses a `conf` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "required" == "required:true")
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	for _, directive := range splitDirectives(tag) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		name, value, _ := strings.Cut(directive, ":")
		switch strings.TrimSpace(name) {
		case "name":
			cfg.name = value
		case "default":
			cfg.defValue = value
			cfg.hasDefault = true
		case "oneof":
			if value != "" {
				cfg.oneof = strings.Split(value, ",")
				for i := range cfg.oneof {
					cfg.oneof[i] = strings.TrimSpace(cfg.oneof[i])
				}
			}
		case "required":
			// Anything but an explicit "false" means required
			cfg.required = value != "false"
		}
	}

	return cfg
}

// splitDirectives splits a tag string into individual directives. Commas
// inside a oneof list belong to the list until the next known directive.
func splitDirectives(tag string) []string {
	var directives []string
	var current strings.Builder
	inOneof := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if !inOneof && strings.HasPrefix(tag[i:], "oneof:") {
			inOneof = true
			current.WriteString("oneof:")
			i += len("oneof:") - 1
			continue
		}

		if ch != ',' {
			current.WriteByte(ch)
			continue
		}

		if inOneof && !startsWithDirective(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}

		inOneof = false
		directives = append(directives, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range knownDirectives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}

// keyPath returns the settings key a field binds to.
func keyPath(field reflect.StructField, tags tagConfig) string {
	if tags.name != "" {
		return tags.name
	}
	return normalize.SnakeCase(field.Name)
}

// validKeys returns the settings keys of all exported fields of t.
func validKeys(t reflect.Type) map[string]bool {
	keys := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		keys[keyPath(field, parseTag(field.Tag.Get("conf")))] = true
	}
	return keys
}

// bindStruct assigns merged values (or tag defaults) to the exported fields of
// v and records where each value came from.
func bindStruct(v reflect.Value, merged map[string]entry, sources map[string]string) []FieldError {
	var fieldErrors []FieldError
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tags := parseTag(field.Tag.Get("conf"))
		key := keyPath(field, tags)

		raw, source := "", ""
		if e, ok := merged[key]; ok {
			raw, source = e.value, e.source
		} else if tags.hasDefault {
			raw, source = tags.defValue, "default"
		} else {
			continue
		}

		if err := setField(v.Field(i), raw); err != nil {
			fieldErrors = append(fieldErrors, FieldError{
				FieldPath: key,
				Code:      ErrCodeInvalidType,
				Message:   err.Error(),
			})
			continue
		}
		sources[key] = source
	}

	return fieldErrors
}

// setField converts raw to the field's type and assigns it.
func setField(fv reflect.Value, raw string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("cannot parse %q as bool", raw)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("cannot parse %q as integer", raw)
		}
		fv.SetInt(n)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", fv.Type())
		}
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		fv.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
