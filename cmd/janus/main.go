// Janus is a post-render cleanup engine for production directory trees.
//
// It classifies files against a pattern catalog, evaluates per-category
// retention windows, and applies disposition actions (delete, compress,
// archive to cold storage) with dry-run simulation, approval gating, an
// append-only audit log, and idempotent re-runs.
//
// Usage:
//
//	# Simulate a cleanup of one or more trees
//	janus clean --path /mnt/projects/show01 --dry-run
//
//	# Apply actions, authorizing gated backup deletions
//	janus clean --path /mnt/projects/show01 --approve TICKET-4821
//
//	# Run on a schedule with the metrics endpoint
//	janus daemon --path /mnt/projects/show01
//
//	# Validate configuration and pattern catalog
//	janus validate
//
//	# Export audit outcomes for a run
//	janus outcomes --run-id <id> --format csv
package main

func main() {
	Execute()
}
