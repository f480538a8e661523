// Package api wires the HTTP surface of the focusflow backend.
//
// Routes are registered on a standard ServeMux using method patterns.
// Auth endpoints are public; every record and stats route goes through
// the session middleware. Write payloads are normalized rather than
// rejected: a wrong-shaped list becomes the empty list and a missing
// object body becomes the zero record, matching what the client sends
// during first-run and recovery flows.
package api
