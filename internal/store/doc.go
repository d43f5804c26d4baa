// Package store provides SQLite-backed storage for a multisite network.
//
// The store holds, per site:
//   - Posts: entities with a post type ("post", "page", "product", ...)
//   - Post meta: key/value pairs, including secondary keys such as "_sku"
//   - Terms: taxonomy terms identified on other sites by (taxonomy, slug)
//
// and, across sites, the crosspost map written by the crossposting
// pipeline: (source site, source entity, target site) -> target entity.
//
// Network layers the registry-switch model on top of a Store: a stack of
// active sites where every read observes the site on top. Network
// implements all of the resolver's read collaborators.
//
// # Identifiers
//
// Entity and term IDs are stored as TEXT (ir.Identifier.Key()) and read
// back with ir.ParseID, so integer IDs round-trip as integers without ever
// passing through float64.
//
// # Slugs
//
// Slugs are NFC normalized on write and on lookup, so natural-key matches
// do not depend on how a site's editor composed accented characters.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
