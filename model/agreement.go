package model

import (
	"regexp"
	"time"
)

// Agreement represents a tracked legal agreement progressing through the
// execution pipeline.
type Agreement struct {
	ID               string                  `json:"id"`
	Client           string                  `json:"client"`
	Department       string                  `json:"department"`
	AgreementType    string                  `json:"agreement_type"`
	EntityType       string                  `json:"entity_type"` // single, group
	GroupCompanies   []string                `json:"group_companies,omitempty"`
	StartDate        time.Time               `json:"start_date"`
	EndDate          *time.Time              `json:"end_date,omitempty"` // nil when open-ended
	OpenEnded        bool                    `json:"open_ended"`
	TotalValue       float64                 `json:"total_value"`
	Currency         string                  `json:"currency"`
	Status           string                  `json:"status"`
	Priority         string                  `json:"priority"`
	Branches         []Branch                `json:"branches"`
	Uploads          map[string]UploadStatus `json:"uploads"`
	ImportantClauses []Clause                `json:"important_clauses,omitempty"`
	Contact          Contact                 `json:"contact"`
	SubmittedDate    time.Time               `json:"submitted_date"`
	SubmittedBy      string                  `json:"submitted_by"`
	ApprovedDate     *time.Time              `json:"approved_date,omitempty"`
	FinalAgreement   string                  `json:"final_agreement,omitempty"` // object key of the signed document
	LastModified     time.Time               `json:"last_modified"`
	Version          int                     `json:"version"`
}

// Branch is a branch office covered by an agreement or addendum. A set equal
// to every available branch of the client represents Pan-India coverage.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Clause is an important clause recorded on an agreement.
type Clause struct {
	Title   string `json:"title"`
	Details string `json:"details,omitempty"`
	FileKey string `json:"file_key,omitempty"`
}

// UploadStatus tracks whether a document slot has been filled.
type UploadStatus struct {
	Uploaded bool   `json:"uploaded"`
	FileKey  string `json:"file_key,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// Contact holds the client-side contact details captured at submission.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Agreement status constants. Rejection resets an agreement to
// StatusExecutionPending rather than parking it in a terminal state.
const (
	StatusExecutionPending = "Execution Pending"
	StatusExecuted         = "Executed"
	StatusUnderProcess     = "Under Process with Client"
	StatusApproved         = "Approved"
	StatusRejected         = "Rejected"
)

// Priority constants, settable only by approvers.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Entity type constants.
const (
	EntitySingle = "single"
	EntityGroup  = "group"
)

// Document slot names. Clause attachments use dynamic "clause-{n}" slots.
const (
	DocLOI           = "LOI"
	DocWO            = "WO"
	DocPO            = "PO"
	DocEmailApproval = "EmailApproval"
	DocAgreement     = "Agreement"
)

// EscalationDocs are the slots of which at least one must be uploaded before
// an agreement can be submitted.
var EscalationDocs = []string{DocLOI, DocWO, DocPO, DocEmailApproval}

// StatusPipeline is the forward-only execution order walked by "advance".
var StatusPipeline = []string{
	StatusExecutionPending,
	StatusExecuted,
	StatusUnderProcess,
	StatusApproved,
}

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidPhone reports whether s is a ten digit phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// ValidEmail reports whether s is a well-formed lowercase email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// HasEscalationDoc reports whether at least one of the LOI/WO/PO/EmailApproval
// slots has been uploaded.
func (a *Agreement) HasEscalationDoc() bool {
	for _, slot := range EscalationDocs {
		if s, ok := a.Uploads[slot]; ok && s.Uploaded {
			return true
		}
	}
	return false
}

// NextStatus returns the status one step forward in the pipeline, and false
// when the agreement is already at the end.
func NextStatus(current string) (string, bool) {
	for i, s := range StatusPipeline {
		if s == current && i+1 < len(StatusPipeline) {
			return StatusPipeline[i+1], true
		}
	}
	return current, false
}
