// Package changevisibility implements listing and unlisting an item.
//
// Unlisted items stay in the registry but cannot be requested. Visibility can only change while
// the item is with its owner.
package changevisibility
