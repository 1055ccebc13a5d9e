package domain

import "fmt"

// ChangeType tags the kind of remediation a ChangeOperation describes.
type ChangeType string

const (
	ChangeUpdateField  ChangeType = "update_field"
	ChangeAddActivity  ChangeType = "add_activity"
	ChangeLinkActivity ChangeType = "link_activity"
)

// Reconciled field names, in the fixed order the planner emits them.
const (
	FieldName      = "name"
	FieldEquipment = "equipment"
)

// ChangeOperation is one proposed edit that would bring a non-authoritative
// provider in line with a cluster's authoritative record. Operations are
// pure derivations of cluster state; applying them is a separate concern.
type ChangeOperation struct {
	Type     ChangeType `json:"type"`
	Provider Provider   `json:"provider"`

	// TargetID is the provider's id for the record being edited. Empty for
	// AddActivity, where no record exists yet.
	TargetID string `json:"target_id,omitempty"`

	// UpdateField payload.
	Field    string `json:"field,omitempty"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`

	// AddActivity and LinkActivity reference the record the data comes from.
	SourceProvider Provider `json:"source_provider,omitempty"`
	SourceID       string   `json:"source_id,omitempty"`

	// ProposedName is the authoritative name an AddActivity would carry.
	ProposedName string `json:"proposed_name,omitempty"`

	// MatchedID is the resolved id a LinkActivity should record.
	MatchedID string `json:"matched_id,omitempty"`
}

// String renders the operation for terminal output.
func (c ChangeOperation) String() string {
	switch c.Type {
	case ChangeUpdateField:
		return fmt.Sprintf("update %s %s for activity %s from %q to %q",
			c.Provider, c.Field, c.TargetID, c.OldValue, c.NewValue)
	case ChangeAddActivity:
		return fmt.Sprintf("add activity %q to %s (from %s activity %s)",
			c.ProposedName, c.Provider, c.SourceProvider, c.SourceID)
	case ChangeLinkActivity:
		return fmt.Sprintf("link %s activity %s with %s activity %s",
			c.Provider, c.TargetID, c.SourceProvider, c.MatchedID)
	}
	return "unknown change"
}
