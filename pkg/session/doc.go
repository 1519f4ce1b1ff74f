// Package session ties the sync layer together for one login session.
//
// A Session owns a set of named collections. Each Collection binds a
// model.Table to a store.Store and runs the full sync pipeline for every
// payload it is given:
//
//	decode -> get or create -> sync -> mark synced -> log -> notify -> persist
//
// so callers holding a record pointer see updates in place:
//
//	s := session.New(session.WithLogger(logger))
//	plans := session.Register(s, "servicePlans", models.ServicePlanTable, models.ServicePlanKey)
//	res, err := plans.Apply(payload)
//
// At most one Apply or Patch may be in flight per record id. Applies for
// different ids may run concurrently.
package session
