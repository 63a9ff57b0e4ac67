package settings

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		expected tagConfig
	}{
		{
			name:     "empty tag",
			tag:      "",
			expected: tagConfig{},
		},
		{
			name:     "name directive",
			tag:      "name:log.level",
			expected: tagConfig{name: "log.level"},
		},
		{
			name:     "default with colon",
			tag:      "default:http://localhost:8080",
			expected: tagConfig{defValue: "http://localhost:8080", hasDefault: true},
		},
		{
			name:     "empty default",
			tag:      "default:",
			expected: tagConfig{hasDefault: true},
		},
		{
			name:     "required shorthand",
			tag:      "required",
			expected: tagConfig{required: true},
		},
		{
			name:     "required false",
			tag:      "required:false",
			expected: tagConfig{},
		},
		{
			name: "oneof followed by another directive",
			tag:  "oneof:auto,raw,json,default:auto",
			expected: tagConfig{
				oneof:      []string{"auto", "raw", "json"},
				defValue:   "auto",
				hasDefault: true,
			},
		},
		{
			name: "oneof last",
			tag:  "name:log.level,default:warn,oneof:debug, info ,warn",
			expected: tagConfig{
				name:       "log.level",
				defValue:   "warn",
				hasDefault: true,
				oneof:      []string{"debug", "info", "warn"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseTag(tt.tag))
		})
	}
}

func TestValidKeys(t *testing.T) {
	keys := validKeys(reflect.TypeOf(Settings{}))
	assert.Equal(t, map[string]bool{
		"base_dir":        true,
		"env_id_variable": true,
		"primary_file":    true,
		"local_file":      true,
		"format":          true,
		"redact":          true,
		"log.level":       true,
	}, keys)
}

func TestBindStruct(t *testing.T) {
	type target struct {
		Name    string
		Enabled bool   `conf:"default:true"`
		Retries int    `conf:"default:3"`
		Markers []string
		Mode    string `conf:"required"`
	}

	merged := map[string]entry{
		"name":    {value: "acme", source: "flag"},
		"retries": {value: "x", source: "env:LAYERENV_RETRIES"},
		"markers": {value: "PASSWORD, ,TOKEN", source: "file:layerenv.yaml"},
	}
	sources := map[string]string{}

	var cfg target
	errs := bindStruct(reflect.ValueOf(&cfg).Elem(), merged, sources)

	assert.Equal(t, "acme", cfg.Name)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"PASSWORD", "TOKEN"}, cfg.Markers)

	if assert.Len(t, errs, 1) {
		assert.Equal(t, "retries", errs[0].FieldPath)
		assert.Equal(t, ErrCodeInvalidType, errs[0].Code)
	}

	assert.Equal(t, map[string]string{
		"name":    "flag",
		"enabled": "default",
		"markers": "file:layerenv.yaml",
	}, sources)

	verrs := validateStruct(reflect.ValueOf(&cfg).Elem())
	if assert.Len(t, verrs, 1) {
		assert.Equal(t, "mode", verrs[0].FieldPath)
		assert.Equal(t, ErrCodeRequired, verrs[0].Code)
	}
}
