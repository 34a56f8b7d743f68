// Package shell is the imperative side of the circulation engine.
//
// It owns the per-item unit of work (Store, ItemScope, KeyedLocks), the retry policy for
// optimistic concurrency conflicts, the translation of domain events into storage writes,
// fire-and-forget notification dispatch and the observability helpers used by the wrappers
// in the observable package.
package shell
