// Package domain contains the core business entities for pacer:
// tokens, documents, chunks, reading state and the domain error set.
// It has no dependencies on adapters or services.
package domain
