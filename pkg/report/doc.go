// Package report aggregates execution outcomes into the run summary.
//
// Building a report is pure: it reads the ordered outcome list and produces
// totals, with no side effects. Freed bytes count only deletions (including
// the delete half of delete-after-archive); bytes relocated to cold storage
// are reported separately so "space saved" never overstates what primary
// storage got back.
//
// The package also provides storage usage analysis (per-extension totals,
// largest files) so a run can attach before/after snapshots of the tree.
package report
