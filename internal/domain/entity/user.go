package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmpleado = "empleado"
)

// IsValidRole verifica que el rol pertenezca al conjunto conocido.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmpleado
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, manager, empleado
	CreatedAt    time.Time
}
