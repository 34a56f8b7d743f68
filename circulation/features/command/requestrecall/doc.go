// Package requestrecall implements the owner asking the holder to bring an item back.
package requestrecall
