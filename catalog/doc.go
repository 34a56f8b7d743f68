// Package catalog looks up book metadata by ISBN or another catalog code.
//
// The Client asks Google Books first and falls back to Open Library when Google has no match or
// fails. Callers treat every error as "no enrichment available".
package catalog
