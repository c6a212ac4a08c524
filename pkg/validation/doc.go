// Package validation maps structured server validation failures onto form
// fields. Each failure carries a machine readable code and an optional path
// into the submitted payload; declarative FieldMapping tables translate codes
// into the messages shown next to inputs. Failures no mapping claims are
// returned as Unmapped so callers can render a form-level summary, which keeps
// every reported failure visible exactly once.
//
// The package is pure: it performs no I/O beyond decoding the problem bodies
// and mapping files handed to it.
package validation
