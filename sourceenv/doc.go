// Package sourceenv bridges the process environment and plain maps.
//
// Environ reads the process environment, Filter narrows any environment
// table by prefix, and Apply writes a map back to the process.
//
// Example:
//
//	settings := sourceenv.Filter(sourceenv.Environ(), sourceenv.Options{Prefix: "LAYERENV_"})
package sourceenv
