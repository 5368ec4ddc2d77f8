// Package control exposes the registry to external controllers over
// HTTP and WebSocket.
//
// The JSON API mirrors the registry surface one to one: sessions are
// opened and closed, components are registered, listed, fetched,
// updated, and removed within a session, and the update response body
// carries the registry's literal status string unchanged. Component
// handles and props schemas travel as raw JSON and are passed through
// unexamined.
//
// A WebSocket endpoint per session streams committed registry changes
// so a renderer binding can react without polling.
package control
