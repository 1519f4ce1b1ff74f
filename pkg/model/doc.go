// Package model implements the table driven synchronization of domain
// records with cloud payloads.
//
// # Field Specs
//
// Every record type declares a Table: one Field per wire key, each knowing
// how to decode, encode, compare and copy that key's value.
//
//	var planTable = model.NewTable[Plan]("servicePlan",
//	    model.Int("planId", func(p *Plan) *opt.Value[int] { return &p.ID }).Identity(),
//	    model.TriState("available", func(p *Plan) *opt.Value[enum.TriState] { return &p.Available }),
//	    model.String("desc", func(p *Plan) *opt.Value[string] { return &p.Desc }),
//	)
//
// Scalar fields are opt.Value so that "key absent from the payload" is
// always distinguishable from an explicit zero value. Nested records are
// pointers (nil when absent), nested record arrays are opt.Value slices and
// dynamic attribute bags are *bag.Bag.
//
// # Decode, Equal, Sync
//
//	candidate, err := planTable.Decode(payload) // WireDecoder
//	same := planTable.Equal(existing, candidate) // EqualityOracle
//	changes := planTable.Sync(existing, candidate) // DiffSync
//
// Decode reports per-field problems in a *DecodeError next to a usable
// record; only a missing identity makes it return nil. Sync skips every
// field the candidate left unset, writes only fields that compare unequal
// and returns their paths. Nested arrays are synced by position so element
// pointers held elsewhere stay valid.
//
// # Concurrency
//
// Tables are immutable and safe for concurrent use. Records are not: the
// caller must ensure at most one Sync or Patch runs per record at a time.
package model
