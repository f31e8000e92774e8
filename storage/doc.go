// Package storage provides the persistence collaborator behind the alert,
// history, and report packages.
//
// Each consumer declares the narrow repository interface it needs; this
// package supplies Repository, their union, and MemoryRepository, the
// in-process reference implementation used by tests and the default
// wiring. A backing database would implement the same surface.
package storage
