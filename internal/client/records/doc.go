// Package records lists, creates and deletes the owner-scoped records of one
// record kind (vaccines, vet contacts, diet notes, expenses, photos).
//
// A Controller is built per kind from a Kind schema. It resolves the owner
// from the current session, validates forms before any store call, runs every
// store call under a timeout and hands a pure view model to a Renderer.
package records
