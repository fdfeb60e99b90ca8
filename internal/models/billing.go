package models

// DummyCheckout recibe el plan elegido para la sesión de checkout.
type DummyCheckout struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// DummyChat recibe la pregunta para el asistente del equipo.
type DummyChat struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}
