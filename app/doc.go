// Package app is the surface the shell drives.
//
// It composes the provider locator, the session manager and, once a wallet
// provider has been located, the network client together with the account
// and transfer services built on it. Observable state is exposed via View.
package app
