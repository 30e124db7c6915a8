// Package middleware provides HTTP middleware for owner sessions and
// client address resolution.
package middleware
