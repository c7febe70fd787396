// Package repository implements the data-access layer over MySQL. Sentinel
// errors defined here let handlers map failures onto the HTTP contract
// without inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when a create or update would violate the unique
// email constraint. Handlers translate it into a 400 response.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is the username counterpart of ErrEmailExists.
var ErrUsernameExists = errors.New("username already exists")

// ErrNotFound is returned when a row does not exist. For the owner-scoped
// order lookup it also deliberately covers rows owned by someone else, so a
// caller cannot distinguish another customer's order from a missing one.
var ErrNotFound = errors.New("not found")
