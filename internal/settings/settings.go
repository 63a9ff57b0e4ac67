package settings

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Azhovan/layerenv/internal/normalize"
	"github.com/Azhovan/layerenv/sourceenv"
	"github.com/Azhovan/layerenv/sourcefile"
)

// EnvPrefix marks environment variables that configure the tool itself.
const EnvPrefix = "LAYERENV_"

// Settings configures the layerenv command.
type Settings struct {
	BaseDir       string   `conf:"default:."`
	EnvIDVariable string   // Empty keeps the resolver's variable
	PrimaryFile   string   `conf:"default:.env"`       // "" from a file or flag disables it
	LocalFile     string   `conf:"default:.env.local"` // "" from a file or flag disables it
	Format        string   `conf:"default:auto,oneof:auto,raw,dotenv,annotated,json"`
	Redact        []string // Key markers whose values are hidden in dumps
	LogLevel      string   `conf:"name:log.level,default:warn,oneof:debug,info,warn,error"`

	sources map[string]string
}

// Source returns where the value of a settings key came from: "default",
// "file:<name>", "env:LAYERENV_<KEY>" or "flag". Empty when unset.
func (s *Settings) Source(key string) string {
	return s.sources[key]
}

// Keys returns the keys of all set values in sorted order.
func (s *Settings) Keys() []string {
	keys := make([]string, 0, len(s.sources))
	for key := range s.sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// entry is a merged settings value with its origin.
type entry struct {
	value  string
	source string
}

// Load resolves settings from, lowest precedence first: tag defaults, the
// settings file at path (skipped when empty), LAYERENV_* variables in env and
// overrides (keyed by settings key, e.g. "base_dir", typically from flags).
// Empty variables count as unset.
//
// Unknown keys in the settings file are rejected. All binding and validation
// failures are reported together in a *ValidationError.
func Load(ctx context.Context, path string, env map[string]string, overrides map[string]string) (*Settings, error) {
	known := validKeys(reflect.TypeOf(Settings{}))
	merged := make(map[string]entry)

	if path != "" {
		src := sourcefile.New(path, sourcefile.Options{Required: true})
		data, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings file: %w", err)
		}

		var unknown []FieldError
		for key, value := range data {
			if !known[key] {
				unknown = append(unknown, FieldError{
					FieldPath: key,
					Code:      ErrCodeUnknownKey,
					Message:   "unknown settings key",
				})
				continue
			}
			merged[key] = entry{value: stringify(value), source: src.Name()}
		}
		if len(unknown) > 0 {
			sort.Slice(unknown, func(i, j int) bool { return unknown[i].FieldPath < unknown[j].FieldPath })
			return nil, &ValidationError{FieldErrors: unknown}
		}
	}

	// Other LAYERENV_* variables (e.g. the populated-keys list) are not settings
	for name, value := range sourceenv.Filter(env, sourceenv.Options{Prefix: EnvPrefix}) {
		key := normalize.ToLowerDotPath(name)
		if known[key] && value != "" {
			merged[key] = entry{value: value, source: "env:" + EnvPrefix + name}
		}
	}

	for key, value := range overrides {
		if !known[key] {
			return nil, fmt.Errorf("unknown settings override %q", key)
		}
		merged[key] = entry{value: value, source: "flag"}
	}

	s := &Settings{sources: make(map[string]string)}
	v := reflect.ValueOf(s).Elem()

	fieldErrors := bindStruct(v, merged, s.sources)
	fieldErrors = append(fieldErrors, validateStruct(v)...)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{FieldErrors: fieldErrors}
	}

	return s, nil
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(item)
		}
		return strings.Join(items, ",")
	default:
		return fmt.Sprint(v)
	}
}
