package reconcile

import "github.com/ckdake/fitler/internal/domain"

// reconciledFields is the fixed comparison order for UpdateField emission.
var reconciledFields = []string{domain.FieldName, domain.FieldEquipment}

// PlanChanges diffs every non-authoritative member of a cluster against the
// authoritative record and returns the edits needed to align them.
//
// Changes come out in priority order, then field order, so repeated runs
// over unchanged data produce identical lists. Blank values never drive an
// UpdateField: a blank authoritative value must not overwrite data, and
// blank-vs-blank is not drift.
func PlanChanges(
	cluster domain.ActivityCluster,
	authoritative domain.Provider,
	priority []domain.Provider,
	policies map[domain.Provider]domain.Policy,
) []domain.ChangeOperation {
	auth, ok := cluster.Members[authoritative]
	if !ok {
		return nil
	}

	var changes []domain.ChangeOperation

	for _, p := range priority {
		if p == authoritative {
			continue
		}
		policy := policies[p]

		member, present := cluster.Members[p]
		if !present {
			if policy.AcceptsNew {
				changes = append(changes, domain.ChangeOperation{
					Type:           domain.ChangeAddActivity,
					Provider:       p,
					SourceProvider: authoritative,
					SourceID:       auth.ProviderID,
					ProposedName:   auth.Name,
				})
			}
			continue
		}

		for _, field := range reconciledFields {
			authVal := fieldValue(auth, field)
			memberVal := fieldValue(member, field)
			if authVal == "" || memberVal == "" || authVal == memberVal {
				continue
			}
			changes = append(changes, domain.ChangeOperation{
				Type:     domain.ChangeUpdateField,
				Provider: p,
				TargetID: member.ProviderID,
				Field:    field,
				OldValue: memberVal,
				NewValue: authVal,
			})
		}

		if policy.ManualLedger {
			changes = append(changes, planLinkFixes(cluster, member, p, priority)...)
		}
	}

	return changes
}

// planLinkFixes compares the ledger's stored cross-reference ids against
// the ids actually resolved into the cluster. A stale hint (hint set,
// provider absent) counts as a disagreement just like a wrong one.
func planLinkFixes(
	cluster domain.ActivityCluster,
	ledger domain.ProviderActivityRecord,
	ledgerProvider domain.Provider,
	priority []domain.Provider,
) []domain.ChangeOperation {
	var fixes []domain.ChangeOperation
	for _, q := range priority {
		if q == ledgerProvider {
			continue
		}
		actual := ""
		if rec, ok := cluster.Members[q]; ok {
			actual = rec.ProviderID
		}
		hint := ledger.LinkedID(q)
		if hint == actual {
			continue
		}
		fixes = append(fixes, domain.ChangeOperation{
			Type:           domain.ChangeLinkActivity,
			Provider:       ledgerProvider,
			TargetID:       ledger.ProviderID,
			SourceProvider: q,
			MatchedID:      actual,
		})
	}
	return fixes
}

func fieldValue(rec domain.ProviderActivityRecord, field string) string {
	switch field {
	case domain.FieldName:
		return rec.Name
	case domain.FieldEquipment:
		return rec.Equipment
	}
	return ""
}
