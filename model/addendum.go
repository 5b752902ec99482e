package model

import (
	"time"
)

// Addendum represents a proposed modification to an existing agreement,
// reviewed independently of its parent. Addendum status changes never affect
// the parent agreement record.
type Addendum struct {
	ID                  string                  `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	Reason              string                  `json:"reason"`
	Impact              string                  `json:"impact,omitempty"`
	EffectiveDate       *time.Time              `json:"effective_date,omitempty"`
	ParentAgreementID   string                  `json:"parent_agreement_id"`
	Status              string                  `json:"status"`
	Branches            []Branch                `json:"branches,omitempty"`
	ClauseModifications []ClauseModification    `json:"clause_modifications,omitempty"`
	UploadedFiles       map[string]UploadStatus `json:"uploaded_files"`
	SubmittedDate       time.Time               `json:"submitted_date"`
	SubmittedBy         string                  `json:"submitted_by"`
	LastModified        time.Time               `json:"last_modified"`
	Version             string                  `json:"version"`
	VersionHistory      []VersionEntry          `json:"version_history"`
}

// ClauseModification records a change to a named clause.
type ClauseModification struct {
	Clause      string `json:"clause"`
	Action      string `json:"action"` // added, removed, modified
	Description string `json:"description,omitempty"`
}

// VersionEntry is one append-only lifecycle event on an addendum.
type VersionEntry struct {
	Version       string    `json:"version"`
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type"` // initial, update, status_change
	Description   string    `json:"description"`
	Actor         string    `json:"actor"`
	ChangedFields []string  `json:"changed_fields,omitempty"`
}

// Addendum status constants. Unlike the agreement pipeline these are freely
// assignable by an approver.
const (
	AddendumPendingReview = "Pending Review"
	AddendumUnderReview   = "Under Review"
	AddendumApproved      = "Approved"
	AddendumRejected      = "Rejected"
)

// Clause modification actions.
const (
	ClauseAdded    = "added"
	ClauseRemoved  = "removed"
	ClauseModified = "modified"
)

// Version history event types.
const (
	VersionInitial      = "initial"
	VersionUpdate       = "update"
	VersionStatusChange = "status_change"
)

// Addendum document slots.
const (
	DocSupporting = "supporting"
	DocAmendment  = "amendment"
)

// ValidAddendumStatus reports whether s is one of the four addendum statuses.
func ValidAddendumStatus(s string) bool {
	switch s {
	case AddendumPendingReview, AddendumUnderReview, AddendumApproved, AddendumRejected:
		return true
	}
	return false
}

// ValidClauseAction reports whether a is a known clause modification action.
func ValidClauseAction(a string) bool {
	return a == ClauseAdded || a == ClauseRemoved || a == ClauseModified
}
