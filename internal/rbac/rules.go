package rbac

// Default policy. Course/article ownership is checked by handlers against
// the created_by column; these permissions gate the coarse role level.
var RolePermissions = map[string][]string{
	"student": {
		"course:view",
		"course:enroll",
		"task:check",
		"progress:view-own",
		"article:view",
	},
	"author": {
		"course:view",
		"course:enroll",
		"course:create",
		"course:edit-own",
		"course:delete-own",
		"content:*",
		"task:check",
		"progress:view-own",
		"article:view",
		"article:create",
		"article:edit-own",
	},
	"admin": {
		"*", // everything
	},
}
