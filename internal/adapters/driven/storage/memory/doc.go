// Package memory provides in-memory implementations of the driven
// storage ports. They back service-level tests; persistent storage is
// the sqlite package.
package memory
