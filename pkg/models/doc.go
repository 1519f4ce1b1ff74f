// Package models declares the concrete record types of the platform and
// their field tables.
//
// Each record type comes with a *Table built from pkg/model constructors
// and a key function for its collection. Register binds all of them to a
// session:
//
//	s := session.New()
//	c := models.Register(s)
//	res, err := c.Plans.Apply(payload)
//
// Fields the server may omit are opt.Value; codes with an open value space
// are enums with an explicit unrecognized variant.
package models
