// Package retention decides whether classified files have outlived their
// retention windows.
//
// A Policy maps categories to retention windows in days. A category absent
// from the policy never auto-expires; a window of zero days is an explicit
// "always eligible" and is distinct from absence. When a file carries several
// categories the longest window wins: the file is expired only once every
// matched category with a defined window agrees, so no rule that still wants
// the file retained is overridden by a shorter window.
package retention
