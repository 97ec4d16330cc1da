// Package lookup implements FindOne and FindMany: path-based extraction
// from pipeline params into repository lookups, including polymorphic
// type-tag dispatch.
package lookup
