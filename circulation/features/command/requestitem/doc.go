// Package requestitem implements the Request Item use case.
//
// A member asks the owner for an item that is on the shelf. The request stays pending until the
// owner confirms a transfer to the requester or rejects it. Several members may have pending
// requests for the same item at the same time, but each member at most one.
package requestitem
