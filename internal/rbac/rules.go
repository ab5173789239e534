package rbac

const (
	PermSimCreate       = "sim:create"
	PermSimViewAll      = "sim:view-all"
	PermQuestionView    = "question:view"
	PermRosterManage    = "roster:manage"
	PermProfessorManage = "professor:manage"
	PermQuizTake        = "quiz:take"
	PermResultViewOwn   = "result:view-own"
	PermResultViewAll   = "result:view-all"
	PermProfileUpdate   = "profile:update"
)

// AllPermissions is every permission a route checks.
var AllPermissions = []string{
	PermSimCreate,
	PermSimViewAll,
	PermQuestionView,
	PermRosterManage,
	PermProfessorManage,
	PermQuizTake,
	PermResultViewOwn,
	PermResultViewAll,
	PermProfileUpdate,
}

var teacherPermissions = []string{
	PermSimCreate,
	PermSimViewAll,
	PermQuestionView,
	PermRosterManage,
	PermResultViewAll,
	PermProfileUpdate,
}

// RolePermissions keys are auth.Role values. Only the super admin manages
// professors; admin professors currently share the teacher set.
var RolePermissions = map[string][]string{
	"student": {
		PermQuizTake,
		PermResultViewOwn,
		PermProfileUpdate,
	},
	"professor":       teacherPermissions,
	"admin_professor": teacherPermissions,
	"super_admin": {
		"*",
	},
}
