// Package ir provides the shared value types for relmap.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the identifier and
// registry vocabulary the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Identifiers are opaque text plus a numeric/string flag, never float64,
//     so large numeric IDs survive every round trip unchanged
//   - All state here is request-scoped; nothing in ir is persisted
//   - Registry handles are explicit values, never a process-wide pointer
package ir
