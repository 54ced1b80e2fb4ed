// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain type with ToDomain and a XModelFromDomain constructor.
//
// Aggregates embed AggregateModel so the version column used for optimistic
// locking is always present. Item tables (work_order_items, release_order_items)
// are rewritten as a whole when their parent is saved.
package models
