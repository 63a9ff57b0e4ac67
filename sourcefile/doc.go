// Package sourcefile reads files from disk: raw dotenv layer text for the
// layered loader, and settings files in YAML, JSON, TOML or dotenv format.
//
// Settings format is auto-detected from the extension (.yaml, .json, .toml, .env).
//
// Example:
//
//	data, err := sourcefile.New("layerenv.yaml", sourcefile.Options{Required: true}).Load(ctx)
//
//	text, found, err := sourcefile.ReadText("dotenv/app--prod.env")
package sourcefile
