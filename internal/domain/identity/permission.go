package identity

// Action is a permission code in resource:action form.
type Action string

const (
	ActionWorkOrderCreate       Action = "work_order:create"
	ActionWorkOrderQuote        Action = "work_order:quote"
	ActionWorkOrderAccept       Action = "work_order:accept"
	ActionWorkOrderNegotiate    Action = "work_order:negotiate"
	ActionWorkOrderReject       Action = "work_order:reject"
	ActionWorkOrderUploadBanner Action = "work_order:upload_banner"
	ActionWorkOrderUploadPO     Action = "work_order:upload_po"
	ActionWorkOrderApprovePO    Action = "work_order:approve_po"
	ActionWorkOrderComplete     Action = "work_order:complete"
	ActionWorkOrderRead         Action = "work_order:read"

	ActionReleaseReviewManager Action = "release_order:review_manager"
	ActionReleaseReviewVP      Action = "release_order:review_vp"
	ActionReleaseReviewPV      Action = "release_order:review_pv"
	ActionReleaseMarkPayment   Action = "release_order:mark_payment"
	ActionReleaseRead          Action = "release_order:read"

	ActionInvoiceIssueProforma Action = "invoice:issue_proforma"
	ActionInvoiceIssueTax      Action = "invoice:issue_tax"
	ActionInvoiceRecordPayment Action = "invoice:record_payment"
	ActionInvoiceRead          Action = "invoice:read"

	ActionDeployIT         Action = "deployment:deploy_it"
	ActionDeployMaterial   Action = "deployment:deploy_material"
	ActionProcessIT        Action = "deployment:process_it"
	ActionProcessMaterial  Action = "deployment:process_material"
	ActionDeploymentRemove Action = "deployment:remove"

	ActionSystemAdmin Action = "system:admin"
)

// String returns the permission code
func (a Action) String() string {
	return string(a)
}

// rolePermissions is the single place that decides which role may fire which
// transition. Stage approvals are never granted to admin.
var rolePermissions = map[Role]map[Action]struct{}{
	RoleClient: set(
		ActionWorkOrderCreate,
		ActionWorkOrderAccept,
		ActionWorkOrderNegotiate,
		ActionWorkOrderReject,
		ActionWorkOrderUploadBanner,
		ActionWorkOrderUploadPO,
		ActionWorkOrderRead,
		ActionInvoiceRead,
		ActionReleaseRead,
	),
	RoleManager: set(
		ActionWorkOrderQuote,
		ActionWorkOrderReject,
		ActionWorkOrderApprovePO,
		ActionWorkOrderComplete,
		ActionWorkOrderRead,
		ActionReleaseReviewManager,
		ActionReleaseRead,
		ActionInvoiceRead,
	),
	RoleVP: set(
		ActionReleaseReviewVP,
		ActionReleaseRead,
		ActionWorkOrderRead,
	),
	RolePVSir: set(
		ActionReleaseReviewPV,
		ActionReleaseRead,
		ActionWorkOrderRead,
	),
	RoleAccounts: set(
		ActionWorkOrderQuote,
		ActionWorkOrderReject,
		ActionWorkOrderApprovePO,
		ActionWorkOrderRead,
		ActionReleaseMarkPayment,
		ActionReleaseRead,
		ActionInvoiceIssueProforma,
		ActionInvoiceIssueTax,
		ActionInvoiceRecordPayment,
		ActionInvoiceRead,
	),
	RoleIT: set(
		ActionDeployIT,
		ActionProcessIT,
		ActionDeploymentRemove,
		ActionReleaseRead,
		ActionWorkOrderRead,
	),
	RoleMaterial: set(
		ActionDeployMaterial,
		ActionProcessMaterial,
		ActionDeploymentRemove,
		ActionReleaseRead,
		ActionWorkOrderRead,
	),
	RoleAdmin: set(
		ActionWorkOrderComplete,
		ActionWorkOrderRead,
		ActionReleaseRead,
		ActionInvoiceRead,
		ActionDeploymentRemove,
		ActionSystemAdmin,
	),
}

func set(actions ...Action) map[Action]struct{} {
	m := make(map[Action]struct{}, len(actions))
	for _, a := range actions {
		m[a] = struct{}{}
	}
	return m
}

// Permitted reports whether role may perform action
func Permitted(role Role, action Action) bool {
	actions, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Actions returns the actions granted to role
func Actions(role Role) []Action {
	granted := make([]Action, 0, len(rolePermissions[role]))
	for a := range rolePermissions[role] {
		granted = append(granted, a)
	}
	return granted
}
