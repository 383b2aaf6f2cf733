// Package catalog loads pattern catalogs from YAML and provides the built-in
// default catalog.
//
// A catalog groups globs by category, plus per-application pattern packs that
// only activate when the run enables them. The loaded catalog is an ordered
// rule list; compilation and matching live in the parent rules package.
package catalog
