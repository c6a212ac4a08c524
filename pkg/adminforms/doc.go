// Package adminforms declares the admin screens' forms: their field layout,
// client-side checks, server error mappings and submission behaviour. Each
// constructor returns a *Form bundling a form.State and a form.Handler; the
// Catalog opens forms by id for callers that only know the id at runtime.
package adminforms
