package contextkeys

type contextKey string

const (
	UserIDKey             contextKey = "UserID"
	CompanyIDKey          contextKey = "CompanyID"
	RoleIDKey             contextKey = "RoleID"
	UserPermissionsMapKey contextKey = "userPermissionsMap"
)
