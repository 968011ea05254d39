// Package testkit provides deterministic implementations of the ports for
// use in tests, and a Harness that supplies them to a di.Container.
//
// The doubles are meant to be owned by a single test. They are not safe for
// concurrent use.
package testkit
