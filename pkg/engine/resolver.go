package engine

import (
	"renderhq/janus/pkg/retention"
	"renderhq/janus/pkg/rules"
	"renderhq/janus/pkg/storage"
)

// ResolverOptions carries the action toggles the resolver consults.
type ResolverOptions struct {
	// CompressRenders enables the compress action for render artifacts and
	// intermediates.
	CompressRenders bool

	// ArchiveToColdStorage enables the archive action.
	ArchiveToColdStorage bool

	// RequireApprovalForBackups gates irreversible categories behind an
	// approval token.
	RequireApprovalForBackups bool

	// ApprovalToken is the token supplied for this run. Empty means no
	// approval.
	ApprovalToken string
}

// Resolver maps a classified, aged entry to its action. Resolution is pure:
// the same entry, policy, and options always produce the same action.
type Resolver struct {
	policy *retention.Policy
	opts   ResolverOptions
}

// NewResolver creates a resolver for one run.
func NewResolver(policy *retention.Policy, opts ResolverOptions) *Resolver {
	return &Resolver{policy: policy, opts: opts}
}

// Resolve sets the entry's ResolvedAction and DecisionReason. The decision
// table is evaluated top to bottom, first match wins:
//
//  1. not expired under every matched category with a defined window -> keep
//  2. irreversible category, approval required, no token -> keep
//  3. expired, compression enabled and applicable -> compress
//  4. expired, archiving enabled -> archive
//  5. expired -> delete
func (r *Resolver) Resolve(entry *CandidateEntry) {
	if entry.Categories.Empty() {
		entry.ResolvedAction = ActionKeep
		entry.DecisionReason = ReasonNoRule
		return
	}

	if !r.policy.AllExpired(entry.Categories, entry.AgeDays) {
		entry.ResolvedAction = ActionKeep
		entry.DecisionReason = ReasonRetentionActive
		return
	}

	if r.opts.RequireApprovalForBackups && r.opts.ApprovalToken == "" {
		for _, cat := range entry.Categories.Sorted() {
			if cat.Irreversible() {
				entry.ResolvedAction = ActionKeep
				entry.DecisionReason = ReasonRequiresApproval
				return
			}
		}
	}

	if r.opts.CompressRenders && r.compressApplies(entry) {
		entry.ResolvedAction = ActionCompress
		entry.DecisionReason = ReasonExpired
		return
	}

	if r.opts.ArchiveToColdStorage {
		entry.ResolvedAction = ActionArchive
		entry.DecisionReason = ReasonExpired
		return
	}

	entry.ResolvedAction = ActionDelete
	entry.DecisionReason = ReasonExpired
}

// compressApplies reports whether the compress action fits the entry:
// render artifacts and intermediates only, and never content that is already
// in a compressed format.
func (r *Resolver) compressApplies(entry *CandidateEntry) bool {
	if !entry.Categories.Has(rules.CategoryRenderArtifact) && !entry.Categories.Has(rules.CategoryIntermediate) {
		return false
	}
	return storage.Compressible(entry.Path)
}
