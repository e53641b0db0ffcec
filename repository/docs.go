// Package repository keeps entities in memory, unique by their identity.
//
// A MemoryRepository offers the basic operations to add, read, enumerate, and remove entities.
// Entities with a single mutable amount, like the quantity of a product or the balance of an account,
// use an AmountRepository, which validates every change of that amount.
// If your use case needs more, embed a repository into your own type and extend or overwrite its methods.
// There are examples for both.
//
// All failures are part of a small closed set of sentinel errors, see KindOf.
//
// A repository lives in memory only. To keep the data between sessions, take an explicit snapshot
// with Save and read it back with Load. Where the snapshot goes is decided by a Store,
// there are implementations for JSON, YAML, TOML, and SQLite.
package repository
