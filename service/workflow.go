package service

import (
	"strings"
	"time"

	"github.com/Kavyashree-BK/ismart-agreement-sub000/model"
	"github.com/Kavyashree-BK/ismart-agreement-sub000/pkg/rbac"
)

// Session identifies the actor behind a workflow operation. Sessions are
// ephemeral; the role is whatever the user last switched to.
type Session struct {
	Username string
	Role     rbac.Role
}

// Workflow validates and applies every agreement and addendum mutation.
// Role checks live here, at the mutation boundary, so hiding a button in the
// UI is never the only thing standing between a checker and an approver-only
// operation.
type Workflow struct {
	store *Store
	now   func() time.Time
}

// NewWorkflow creates a workflow engine over the given store.
func NewWorkflow(store *Store) *Workflow {
	return &Workflow{store: store, now: time.Now}
}

// SubmitAgreement validates and stores a new agreement draft. Both roles may
// submit; the draft's priority is honored only when the actor is an approver.
func (w *Workflow) SubmitAgreement(actor Session, draft model.Agreement) (model.Agreement, error) {
	if !rbac.Can(actor.Role, rbac.ActionCreateAgreement) {
		return model.Agreement{}, permissionError(string(actor.Role), "create an agreement")
	}
	if err := validateAgreementDraft(&draft); err != nil {
		return model.Agreement{}, err
	}

	draft.Status = model.StatusExecutionPending
	draft.SubmittedBy = actor.Username

	// A draft can never arrive pre-approved. The final signed document and
	// the approval stamp only ever enter through the approver operations.
	draft.FinalAgreement = ""
	draft.ApprovedDate = nil
	draft.Version = 0
	delete(draft.Uploads, model.DocAgreement)

	if actor.Role != rbac.RoleApprover {
		draft.Priority = model.PriorityMedium
	} else if draft.Priority != "" && !model.ValidPriority(draft.Priority) {
		return model.Agreement{}, fieldValidationError([]string{"priority"}, "unknown priority %q", draft.Priority)
	}
	return w.store.CreateAgreement(draft)
}

// EditAgreement applies a partial update. Checker-only, and only while the
// agreement is still in the editable Execution Pending stage.
func (w *Workflow) EditAgreement(actor Session, id string, patch AgreementPatch) (model.Agreement, error) {
	if !rbac.Can(actor.Role, rbac.ActionEditAgreement) {
		return model.Agreement{}, permissionError(string(actor.Role), "edit an agreement")
	}

	current, err := w.store.GetAgreement(id)
	if err != nil {
		return model.Agreement{}, err
	}
	if current.Status != model.StatusExecutionPending {
		return model.Agreement{}, validationError(
			"agreement %s can no longer be edited in status %q", id, current.Status)
	}
	if patch.Contact != nil {
		if err := validateContact(*patch.Contact); err != nil {
			return model.Agreement{}, err
		}
	}
	return w.store.UpdateAgreement(id, patch)
}

// AdvanceAgreementStatus moves the agreement exactly one step forward along
// the execution pipeline. Advancing a fully approved agreement is a no-op.
// The final step to Approved requires a signed agreement document, either
// supplied with this call or already uploaded.
func (w *Workflow) AdvanceAgreementStatus(actor Session, id string, finalDoc *model.UploadStatus) (model.Agreement, error) {
	if !rbac.Can(actor.Role, rbac.ActionAdvanceAgreement) {
		return model.Agreement{}, permissionError(string(actor.Role), "advance agreement status")
	}

	current, err := w.store.GetAgreement(id)
	if err != nil {
		return model.Agreement{}, err
	}

	next, ok := model.NextStatus(current.Status)
	if !ok {
		return current, nil
	}

	upd := StatusUpdate{Status: &next}
	if next == model.StatusApproved {
		hasFinal := current.FinalAgreement != ""
		if existing, ok := current.Uploads[model.DocAgreement]; ok && existing.Uploaded {
			hasFinal = true
		}
		if finalDoc == nil && !hasFinal {
			return model.Agreement{}, fieldValidationError([]string{model.DocAgreement},
				"final signed agreement document is required for approval")
		}
		approvedAt := w.now()
		upd.ApprovedDate = &approvedAt
		if finalDoc != nil {
			upd.FinalAgreement = &finalDoc.FileKey
			if _, err := w.store.SetAgreementUpload(id, model.DocAgreement, *finalDoc); err != nil {
				return model.Agreement{}, err
			}
		}
	}
	return w.store.UpdateAgreementStatus(id, upd)
}

// RejectAgreement resets the agreement to the start of the pipeline and
// discards any approval artifacts. Rejection is a reset, not a terminal
// state.
func (w *Workflow) RejectAgreement(actor Session, id string) (model.Agreement, error) {
	if !rbac.Can(actor.Role, rbac.ActionRejectAgreement) {
		return model.Agreement{}, permissionError(string(actor.Role), "reject an agreement")
	}
	if _, err := w.store.GetAgreement(id); err != nil {
		return model.Agreement{}, err
	}

	reset := model.StatusExecutionPending
	clearedDoc := ""
	return w.store.UpdateAgreementStatus(id, StatusUpdate{
		Status:         &reset,
		ApprovedDate:   &time.Time{},
		FinalAgreement: &clearedDoc,
	})
}

// SetAgreementPriority sets the priority. Approver-only.
func (w *Workflow) SetAgreementPriority(actor Session, id, priority string) (model.Agreement, error) {
	if !rbac.Can(actor.Role, rbac.ActionSetPriority) {
		return model.Agreement{}, permissionError(string(actor.Role), "set agreement priority")
	}
	if !model.ValidPriority(priority) {
		return model.Agreement{}, fieldValidationError([]string{"priority"}, "unknown priority %q", priority)
	}
	return w.store.UpdateAgreementStatus(id, StatusUpdate{Priority: &priority})
}

// AttachAgreementDocument records an uploaded document on the agreement. The
// final signed agreement slot is approver-only; every other slot follows the
// checker edit rules.
func (w *Workflow) AttachAgreementDocument(actor Session, id, slot string, doc model.UploadStatus) (model.Agreement, error) {
	if slot == model.DocAgreement {
		if !rbac.Can(actor.Role, rbac.ActionUploadFinal) {
			return model.Agreement{}, permissionError(string(actor.Role), "upload the final agreement")
		}
		if _, err := w.store.SetAgreementUpload(id, slot, doc); err != nil {
			return model.Agreement{}, err
		}
		return w.store.UpdateAgreementStatus(id, StatusUpdate{FinalAgreement: &doc.FileKey})
	}

	if !rbac.Can(actor.Role, rbac.ActionEditAgreement) {
		return model.Agreement{}, permissionError(string(actor.Role), "upload agreement documents")
	}

	current, err := w.store.GetAgreement(id)
	if err != nil {
		return model.Agreement{}, err
	}
	if current.Status != model.StatusExecutionPending {
		return model.Agreement{}, validationError(
			"agreement %s can no longer be edited in status %q", id, current.Status)
	}
	if !validAgreementSlot(slot) {
		return model.Agreement{}, fieldValidationError([]string{"slot"}, "unknown document slot %q", slot)
	}
	return w.store.SetAgreementUpload(id, slot, doc)
}

// RemoveAgreement deletes an agreement outright. Not part of the guided
// workflow; restricted to checkers cleaning up drafts.
func (w *Workflow) RemoveAgreement(actor Session, id string) error {
	if !rbac.Can(actor.Role, rbac.ActionEditAgreement) {
		return permissionError(string(actor.Role), "remove an agreement")
	}
	return w.store.RemoveAgreement(id)
}

// SubmitAddendum validates and stores a new addendum request. Both roles may
// attach an addendum to a parent agreement.
func (w *Workflow) SubmitAddendum(actor Session, draft model.Addendum) (model.Addendum, error) {
	if !rbac.Can(actor.Role, rbac.ActionCreateAddendum) {
		return model.Addendum{}, permissionError(string(actor.Role), "create an addendum")
	}
	if err := validateAddendumDraft(&draft); err != nil {
		return model.Addendum{}, err
	}

	draft.Status = model.AddendumPendingReview
	return w.store.CreateAddendum(draft, actor.Username)
}

// EditAddendum applies a partial update. Checker-only, and only while the
// addendum is still pending review.
func (w *Workflow) EditAddendum(actor Session, id string, patch AddendumPatch) (model.Addendum, error) {
	if !rbac.Can(actor.Role, rbac.ActionEditAddendum) {
		return model.Addendum{}, permissionError(string(actor.Role), "edit an addendum")
	}

	current, err := w.store.GetAddendum(id)
	if err != nil {
		return model.Addendum{}, err
	}
	if current.Status != model.AddendumPendingReview {
		return model.Addendum{}, validationError(
			"addendum %s can no longer be edited in status %q", id, current.Status)
	}
	if patch.ClauseModifications != nil {
		if err := validateClauseModifications(*patch.ClauseModifications); err != nil {
			return model.Addendum{}, err
		}
	}
	return w.store.UpdateAddendum(id, patch, actor.Username)
}

// SetAddendumStatus assigns any of the four review statuses directly.
// Approver-only. Unlike the agreement pipeline this is a free assignment,
// and it never touches the parent agreement.
func (w *Workflow) SetAddendumStatus(actor Session, id, status string) (model.Addendum, error) {
	if !rbac.Can(actor.Role, rbac.ActionSetAddendumStatus) {
		return model.Addendum{}, permissionError(string(actor.Role), "change addendum status")
	}
	if !model.ValidAddendumStatus(status) {
		return model.Addendum{}, fieldValidationError([]string{"status"}, "unknown addendum status %q", status)
	}
	return w.store.SetAddendumStatus(id, status, actor.Username)
}

// AttachAddendumDocument records an uploaded file on the addendum, under the
// same rules as addendum edits.
func (w *Workflow) AttachAddendumDocument(actor Session, id, slot string, doc model.UploadStatus) (model.Addendum, error) {
	if !rbac.Can(actor.Role, rbac.ActionEditAddendum) {
		return model.Addendum{}, permissionError(string(actor.Role), "upload addendum documents")
	}

	current, err := w.store.GetAddendum(id)
	if err != nil {
		return model.Addendum{}, err
	}
	if current.Status != model.AddendumPendingReview {
		return model.Addendum{}, validationError(
			"addendum %s can no longer be edited in status %q", id, current.Status)
	}
	return w.store.SetAddendumUpload(id, slot, doc)
}

// RemoveAddendum deletes an addendum outright. Not part of the guided
// workflow; restricted to checkers cleaning up drafts.
func (w *Workflow) RemoveAddendum(actor Session, id string) error {
	if !rbac.Can(actor.Role, rbac.ActionEditAddendum) {
		return permissionError(string(actor.Role), "remove an addendum")
	}
	return w.store.RemoveAddendum(id)
}

func validateAgreementDraft(a *model.Agreement) error {
	var missing []string
	if a.Client == "" {
		missing = append(missing, "client")
	}
	if a.Department == "" {
		missing = append(missing, "department")
	}
	if a.AgreementType == "" {
		missing = append(missing, "agreement_type")
	}
	if len(missing) > 0 {
		return fieldValidationError(missing, "missing required fields: %s", strings.Join(missing, ", "))
	}

	if a.EntityType != model.EntitySingle && a.EntityType != model.EntityGroup {
		return fieldValidationError([]string{"entity_type"}, "entity type must be single or group")
	}
	if a.EntityType == model.EntityGroup && len(a.GroupCompanies) == 0 {
		return fieldValidationError([]string{"group_companies"},
			"group entity requires at least one group company")
	}
	if !a.OpenEnded && a.EndDate == nil {
		return fieldValidationError([]string{"end_date"},
			"end date is required unless the agreement is open-ended")
	}
	if err := validateContact(a.Contact); err != nil {
		return err
	}
	if !a.HasEscalationDoc() {
		return fieldValidationError(model.EscalationDocs,
			"at least one of LOI, WO, PO or EmailApproval must be uploaded before submission")
	}
	return nil
}

func validateContact(c model.Contact) error {
	if c.Name == "" {
		return fieldValidationError([]string{"contact.name"}, "contact name is required")
	}
	if !model.ValidPhone(c.Phone) {
		return fieldValidationError([]string{"contact.phone"}, "contact phone must be a 10 digit number")
	}
	if !model.ValidEmail(c.Email) {
		return fieldValidationError([]string{"contact.email"}, "contact email %q is not valid", c.Email)
	}
	return nil
}

func validateAddendumDraft(ad *model.Addendum) error {
	var missing []string
	if ad.Title == "" {
		missing = append(missing, "title")
	}
	if ad.Description == "" {
		missing = append(missing, "description")
	}
	if ad.Reason == "" {
		missing = append(missing, "reason")
	}
	if len(missing) > 0 {
		return fieldValidationError(missing, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return validateClauseModifications(ad.ClauseModifications)
}

func validateClauseModifications(mods []model.ClauseModification) error {
	for _, m := range mods {
		if m.Clause == "" {
			return fieldValidationError([]string{"clause_modifications"}, "clause modification is missing a clause name")
		}
		if !model.ValidClauseAction(m.Action) {
			return fieldValidationError([]string{"clause_modifications"},
				"unknown clause action %q", m.Action)
		}
	}
	return nil
}

// validAgreementSlot accepts the fixed document slots plus dynamic clause
// attachments ("clause-1", "clause-2", ...).
func validAgreementSlot(slot string) bool {
	switch slot {
	case model.DocLOI, model.DocWO, model.DocPO, model.DocEmailApproval:
		return true
	}
	return strings.HasPrefix(slot, "clause-") && len(slot) > len("clause-")
}
