// Package validation provides centralized input validation logic.
// This includes bucket name validation, object key validation, and
// metadata checks.
//
// All user inputs are validated before they are serialized into a request,
// so malformed names fail fast and locally instead of as a service error.
package validation
