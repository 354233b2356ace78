package rbac

// Permissions.
const (
	PermResultsList   = "results:list"
	PermResultsView   = "results:view"
	PermResultsNotify = "results:notify"
	PermVariantsView  = "variants:view" // answer keys and policy thresholds
	PermEventsList    = "events:list"
)

// Roles.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// RolePermissions is the default policy. Test takers are anonymous and need
// no role.
var RolePermissions = map[string][]string{
	RoleStaff: {
		"results:*",
		PermVariantsView,
	},
	RoleAdmin: {
		"*",
	},
}
