// Package identity carries the authenticated owner of a request.
//
// The session middleware verifies the session token, builds an Identity
// from its claims and the client address, and stores it in the request
// context. Handlers that act on behalf of an owner read it back:
//
//	id, ok := identity.Get(r.Context())
//	if !ok {
//		// 401
//	}
//
// An Identity without a user id is treated as absent.
package identity
