// Package memory provides map-backed implementations of the store
// interfaces. They back the server when database.driver is "memory" and
// serve as realistic fakes in service and handler tests.
package memory
