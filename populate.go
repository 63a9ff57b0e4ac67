package layerenv

import (
	"sort"
	"strings"
)

// DotenvVarsKey lists, comma-separated, the variables populated from dotenv
// text. Variables on this list may be overwritten by a later pass; any other
// variable already present in the environment is kept unless overriding.
const DotenvVarsKey = "LAYERENV_DOTENV_VARS"

// Populate writes vars into env and returns it. A nil env is allocated.
func Populate(env Env, vars map[string]string, override bool) Env {
	if env == nil {
		env = Env{}
	}

	loaded := make(map[string]bool)
	for _, key := range LoadedKeys(env) {
		loaded[key] = true
	}

	for key, value := range vars {
		if key == DotenvVarsKey {
			continue
		}
		if _, exists := env[key]; exists && !override && !loaded[key] {
			continue
		}
		env[key] = value
		loaded[key] = true
	}

	if len(loaded) > 0 {
		keys := make([]string, 0, len(loaded))
		for key := range loaded {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		env[DotenvVarsKey] = strings.Join(keys, ",")
	}

	return env
}

// LoadedKeys returns the variables populated from dotenv text, as recorded in
// DotenvVarsKey.
func LoadedKeys(env Env) []string {
	list := env.Get(DotenvVarsKey)
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}
