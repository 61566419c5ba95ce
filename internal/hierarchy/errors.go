package hierarchy

import "errors"

// Sentinel errors for hierarchy operations.
var (
	// ErrInvalidHierarchyFact is returned when a class is recorded as its own
	// superclass. Ingestion stops at the first such fact.
	ErrInvalidHierarchyFact = errors.New("invalid hierarchy fact")

	// ErrCyclicHierarchy is returned when an ancestry walk revisits a class.
	ErrCyclicHierarchy = errors.New("cyclic class hierarchy")

	// ErrStoreFrozen is returned when recording into a store after Freeze.
	ErrStoreFrozen = errors.New("hierarchy store is frozen and cannot be modified")
)
