// Package form coordinates form submissions. A Handler wraps a submit
// function for one form instance (State) and runs each attempt through the
// same lifecycle:
//
//	Idle -> Submitting -> Succeeded | Invalid | Failed
//
// Only one attempt is in flight per instance; further calls are ignored until
// it finishes. Validation-shaped failures are mapped onto fields with the
// validation package and stay local to the form. Anything else is returned to
// the caller, which owns generic error presentation. Outcomes are applied only
// while the instance is live, so destroying a form mid-flight is safe.
package form
