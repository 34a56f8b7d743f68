// Package api is the HTTP surface of the circulation engine.
//
// Every request except the health check carries a bearer token whose subject is the acting
// member id. Circulation commands go through a closed table of typed commands (Dispatcher), so
// a command name either maps to exactly one handler or is rejected before anything runs.
package api
