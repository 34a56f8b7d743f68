// Package confirmreturn implements the owner confirming that an item is back on the shelf.
package confirmreturn
