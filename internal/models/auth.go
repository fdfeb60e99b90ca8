package models

// DummyRegister recibe los datos de registro de una cuenta desde JSON.
type DummyRegister struct {
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"role" validate:"required,oneof=guardian shadow_teacher therapist"`
	DisplayName string `json:"display_name" validate:"required"`
}

// DummyLogin recibe las credenciales de inicio de sesión desde JSON.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
