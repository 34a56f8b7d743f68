// Package core holds the pure domain model of the circulation engine: entities, the derived
// circulation state, domain events, decision results, error sentinels and notifications.
//
// Nothing in here performs I/O. Decide functions in the feature packages take an ItemSnapshot,
// return a DecisionResult and leave persistence to the shell.
package core
