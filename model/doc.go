// Package model defines the stable wire representation of attestations.
//
// Canonical identity (payload bytes, digests, CIDs) is unaffected by any
// projection through this package: parsing and rendering preserve every
// field the canonical encoding consumes. These structs are the only types
// intended for direct JSON serialization by consumers.
package model
