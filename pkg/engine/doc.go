// Package engine implements the cleanup decision engine: the tree walker,
// the action resolver, the execution state machine, and the run orchestration
// that ties classification, retention, storage, audit, and reporting
// together.
//
// A run is parameterized purely by its inputs. One run exclusively owns the
// candidate inventory for its roots; concurrent runs on unrelated roots do
// not share state. Destructive actions are gated: dry-run simulates, backup
// deletions require approval, archives verify before the source is deleted,
// and every outcome lands in the append-only audit log before the run moves
// on.
package engine
