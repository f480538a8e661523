// Package auth provides authentication for the focusflow backend.
//
// # Sessions
//
// Sessions are stateless. A successful registration or login mints an
// HS256-signed JWT whose "sub" claim is the user ID, valid for 30 days,
// and sets it as the http-only "ff_token" cookie. Requests to protected
// routes present the cookie; verification is a pure computation over
// signature and expiry and never touches storage. There is no server-side
// session table and no revocation list, so logout is simply the client
// discarding its cookie.
//
// # Registration
//
// The backend is single-admin: only the very first registration ever is
// accepted. Once any user exists the endpoint returns
// ErrRegistrationClosed, permanently. Emails are lowercased before
// storage and lookup, passwords are hashed with bcrypt at cost 12, and a
// successful registration synchronously provisions the user's starter
// records before the response is sent.
//
// # Login
//
// Unknown email and wrong password are deliberately indistinguishable:
// both return ErrInvalidCredentials, and the unknown-email path still
// runs a bcrypt comparison against a fixed dummy hash so the two cases
// take similar time.
//
// # Middleware
//
// RequireSession wraps protected handlers. It extracts the cookie,
// verifies the token, and places the user ID in the request context where
// handlers retrieve it with UserFromContext.
package auth
