// Package edititem implements the Edit Item use case: the owner replaces the item's metadata.
package edititem
