package rbac

// Role is one of the two dashboard roles. Checkers originate agreements and
// addendums; approvers advance status, set priority and finalize documents.
type Role string

// Action is an operation gated by role.
type Action string

const (
	RoleChecker  Role = "Checker"
	RoleApprover Role = "Approver"
)

const (
	ActionView              Action = "view"
	ActionExport            Action = "export"
	ActionCreateAgreement   Action = "create_agreement"
	ActionEditAgreement     Action = "edit_agreement"
	ActionSetPriority       Action = "set_priority"
	ActionAdvanceAgreement  Action = "advance_agreement"
	ActionRejectAgreement   Action = "reject_agreement"
	ActionUploadFinal       Action = "upload_final"
	ActionCreateAddendum    Action = "create_addendum"
	ActionEditAddendum      Action = "edit_addendum"
	ActionSetAddendumStatus Action = "set_addendum_status"
)

// Can reports whether role may perform action. Creation and read surfaces are
// open to both roles; editing is checker-only and every status/priority lever
// is approver-only.
func Can(role Role, action Action) bool {
	switch action {
	case ActionView, ActionExport, ActionCreateAgreement, ActionCreateAddendum:
		return role == RoleChecker || role == RoleApprover
	case ActionEditAgreement, ActionEditAddendum:
		return role == RoleChecker
	case ActionSetPriority, ActionAdvanceAgreement, ActionRejectAgreement,
		ActionUploadFinal, ActionSetAddendumStatus:
		return role == RoleApprover
	default:
		return false
	}
}

// Valid reports whether s names a known role.
func Valid(s string) bool {
	return Role(s) == RoleChecker || Role(s) == RoleApprover
}
