package rbac

// Default policy. "author" curates the catalog, "learner" only practices.
var RolePermissions = map[string][]string{
	"learner": {
		"question:view",
		"submission:create",
	},
	"author": {
		"question:*",
		"submission:create",
		"submission:view",
	},
	"admin": {
		"*", // everything
	},
}
