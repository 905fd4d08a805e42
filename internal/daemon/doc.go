// Package daemon ties the queue store and workflow manager into a
// single-instance background process guarded by a file lock.
package daemon
