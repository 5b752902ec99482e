package rbac

import (
	"testing"
)

func TestCheckerPermissions(t *testing.T) {
	allowed := []Action{ActionView, ActionExport, ActionCreateAgreement, ActionCreateAddendum, ActionEditAgreement, ActionEditAddendum}
	for _, a := range allowed {
		if !Can(RoleChecker, a) {
			t.Errorf("Expected checker to be allowed %q", a)
		}
	}

	denied := []Action{ActionSetPriority, ActionAdvanceAgreement, ActionRejectAgreement, ActionUploadFinal, ActionSetAddendumStatus}
	for _, a := range denied {
		if Can(RoleChecker, a) {
			t.Errorf("Expected checker to be denied %q", a)
		}
	}
}

func TestApproverPermissions(t *testing.T) {
	allowed := []Action{
		ActionView, ActionExport, ActionCreateAgreement, ActionCreateAddendum,
		ActionSetPriority, ActionAdvanceAgreement, ActionRejectAgreement,
		ActionUploadFinal, ActionSetAddendumStatus,
	}
	for _, a := range allowed {
		if !Can(RoleApprover, a) {
			t.Errorf("Expected approver to be allowed %q", a)
		}
	}

	// Editing drafts stays with the checker.
	if Can(RoleApprover, ActionEditAgreement) {
		t.Error("Expected approver to be denied agreement edits")
	}
	if Can(RoleApprover, ActionEditAddendum) {
		t.Error("Expected approver to be denied addendum edits")
	}
}

func TestUnknownRoleAndAction(t *testing.T) {
	if Can(Role("Admin"), ActionView) {
		t.Error("Expected unknown role to be denied")
	}
	if Can(RoleApprover, Action("drop_tables")) {
		t.Error("Expected unknown action to be denied")
	}
}

func TestValid(t *testing.T) {
	if !Valid("Checker") || !Valid("Approver") {
		t.Error("Expected both dashboard roles to be valid")
	}
	if Valid("") || Valid("checker") {
		t.Error("Expected role names to be case sensitive")
	}
}
