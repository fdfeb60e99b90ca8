// Package models contiene las estructuras de dominio de Pulso Azul:
// cuentas, suscriptores, niños, registros diarios, metas, mensajes y
// suscripciones push, junto con los tipos auxiliares para recibir datos
// de peticiones JSON antes de su validación.
package models

import "time"

// Roles válidos de una cuenta dentro de un equipo de cuidado.
const (
	RoleGuardian      = "guardian"
	RoleShadowTeacher = "shadow_teacher"
	RoleTherapist     = "therapist"
)

// Account representa una cuenta registrada en el sistema.
type Account struct {
	UID          string    // Identificador único de la cuenta
	Email        string    // Correo electrónico
	Username     string    // Nombre de usuario (único)
	PasswordHash string    // Hash bcrypt de la contraseña
	Role         string    // Rol: guardian, shadow_teacher o therapist
	DisplayName  string    // Nombre visible para el equipo
	CreatedAt    time.Time // Fecha de creación
}
