// Package additem implements the Add Item use case.
//
// An owner puts a new item into the registry. When the owner supplies a catalog code, the
// handler asks the catalog for missing metadata before deciding; the lookup is bounded by a
// timeout and its failures never block the command.
package additem
