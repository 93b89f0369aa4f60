package reconcile

import (
	"flashdeck/core/models"
)

// PlanMigration computes which local sets must be appended to the remote
// collection. Deduplication is by set id only; content is never compared.
// It does not mutate its inputs.
func PlanMigration(local, remote []models.FlashcardSet) MigrationPlan {
	seen := make(map[string]struct{}, len(remote)+len(local))
	for _, s := range remote {
		seen[s.ID] = struct{}{}
	}

	plan := MigrationPlan{
		Additions: []models.FlashcardSet{},
		Skipped:   []string{},
	}
	for _, s := range local {
		if _, ok := seen[s.ID]; ok {
			plan.Skipped = append(plan.Skipped, s.ID)
			continue
		}
		seen[s.ID] = struct{}{}
		plan.Additions = append(plan.Additions, s.Clone())
	}

	plan.Summary = MigrationSummary{
		LocalSets:  len(local),
		RemoteSets: len(remote),
		Added:      len(plan.Additions),
		Skipped:    len(plan.Skipped),
	}
	return plan
}

// ApplyMigration returns the remote collection with the plan's additions
// appended. Additions without an owner are stamped with ownerID.
// Remote sets are never removed or reordered.
func ApplyMigration(remote []models.FlashcardSet, plan MigrationPlan, ownerID string) []models.FlashcardSet {
	merged := make([]models.FlashcardSet, 0, len(remote)+len(plan.Additions))
	merged = append(merged, models.CloneSets(remote)...)
	for _, s := range plan.Additions {
		s = s.Clone()
		if s.OwnerID == nil && ownerID != "" {
			s.OwnerID = models.StringPtr(ownerID)
		}
		merged = append(merged, s)
	}
	return merged
}
