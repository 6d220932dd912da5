// Package services provides the centralized service registry for planqd.
//
// The registry groups the long-lived components built at startup so the
// server and CLI commands share one wiring point. Use NewRegistry() with
// constructed instances, then accessor methods to retrieve them.
package services
