// Package host scopes registries to controller sessions.
//
// A Host owns one registry per session: sessions are opened when a
// controller connects, looked up by a cryptographically random id, and
// closed (discarding the registry) when the controller goes away or the
// session sits idle past the configured timeout. The host is the piece
// that threads an explicit registry reference to its consumers instead
// of relying on ambient lookup.
package host
