// Package file provides a TOML file-based implementation of the
// configuration store, persisted under the pacer config directory.
package file
