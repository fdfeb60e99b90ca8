package models

import "time"

// Child representa un niño cuyo progreso coordina un equipo de cuidado.
// El guardián que lo registra queda como propietario del perfil.
type Child struct {
	ID             int       // Identificador del perfil
	GuardianUID    string    // Cuenta propietaria (guardián)
	Name           string    // Nombre del niño
	BirthDate      time.Time // Fecha de nacimiento
	DiagnosisNotes string    // Notas de diagnóstico (opcional)
	CreatedAt      time.Time
}

// DummyChild recibe los datos de creación de un perfil desde JSON.
// Las fechas llegan como cadenas para validarlas y parsearlas a mano.
type DummyChild struct {
	Name           string `json:"name" validate:"required"`       // Nombre del niño
	BirthDate      string `json:"birth_date" validate:"required"` // Formato 2006-01-02
	DiagnosisNotes string `json:"diagnosis_notes,omitempty" validate:"omitempty"`
}

// CareTeamMember vincula una cuenta con el equipo de cuidado de un niño.
type CareTeamMember struct {
	ChildID     int    // Perfil al que pertenece
	AccountUID  string // Cuenta del miembro
	Username    string // Nombre de usuario del miembro
	DisplayName string // Nombre visible
	Role        string // Rol de la cuenta en el equipo
}

// DummyTeamMember recibe la invitación de un miembro por nombre de usuario.
type DummyTeamMember struct {
	Username string `json:"username" validate:"required,alphanum"`
}
