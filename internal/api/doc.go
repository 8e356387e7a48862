// Package api defines the transport DTOs served by the daemon's HTTP
// surface and the read services that back them.
package api
