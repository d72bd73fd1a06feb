package authz

import (
	"erp-system/internal/entities"
)

// Context — всё, что нужно для принятия решения о доступе.
// Permissions — карта привилегий роли актора, разрешённая на запрос.
type Context struct {
	Actor       *entities.User
	Permissions map[string]bool
}

func (c *Context) HasPermission(permission string) bool {
	if c.Permissions == nil {
		return false
	}
	_, exists := c.Permissions[permission]
	return exists
}

// CanDo — проверка привилегии с учётом superuser.
func CanDo(permission string, ctx Context) bool {
	if ctx.HasPermission(Superuser) {
		return true
	}
	return ctx.HasPermission(permission)
}

// SameCompany — базовая проверка мультиарендности: ресурс другой компании
// для актора не существует (наружу уходит NotFound, не Forbidden).
func SameCompany(ctx Context, companyID uint64) bool {
	if ctx.Actor == nil {
		return false
	}
	return ctx.Actor.CompanyID == companyID
}
