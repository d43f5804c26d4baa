// Package resolver remaps relationship field values between registries.
//
// A crossposting pipeline copies a post (or term) from a source registry to
// a target registry. Custom fields that hold identifiers of other entities
// must be rewritten to point at the target's copies of those entities.
// Resolver.TransformFieldValue does that for one field:
//
//  1. Classify the field key against the registered post and term
//     relationship key sets (StoragePrefix-prefixed keys match their base key)
//  2. Decode the raw value into tokens (see package codec)
//  3. Restore the source registry and run every source-side read
//  4. Switch to the target registry exactly once and run every target-side read
//  5. Encode the resolved identifiers in the value's original shape
//
// # Resolution strategies
//
// Post relationships resolve through the crosspost map (LookupCorrelate),
// except entity types whose SecondaryKeyMode is true (products crossposted
// by SKU): their key is read on the source and matched on the target.
//
// Term relationships resolve by natural key: (taxonomy, slug) is read on
// the source and matched exactly on the target.
//
// # Failure model
//
// A token that cannot be resolved is dropped, never an error. Lookup
// failures are logged and treated the same way. Only a failed registry
// switch is reported, together with the unchanged raw value.
package resolver
