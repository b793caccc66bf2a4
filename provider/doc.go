// Package provider defines the wallet extension contract the core consumes
// and discovers it from the host environment.
//
// A Host stands in for the browser's global object: extensions inject
// themselves under a well-known name, and a Locator reads that name once per
// call. Absence is an ordinary outcome reported through the boolean result of
// Locate, never through an error.
package provider
