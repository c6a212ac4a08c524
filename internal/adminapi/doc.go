// Package adminapi is an in-memory rendition of the admin REST services the
// forms submit to. It enforces the same uniqueness and upload rules as the
// real services and rejects requests with validation problems carrying the
// services' error codes, which makes it useful for demos and integration
// tests.
package adminapi
