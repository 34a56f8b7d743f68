// Package cancelrecall implements the owner withdrawing a recall.
package cancelrecall
