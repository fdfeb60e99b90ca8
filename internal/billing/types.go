package billing

// CreateCheckoutSessionRequest es la petición de sesión de checkout.
// Metadata lleva el account_uid para correlacionar el webhook posterior.
type CreateCheckoutSessionRequest struct {
	PlanID     string            `json:"plan_id" validate:"required"`
	CustomerID string            `json:"customer_id,omitempty"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// CheckoutSessionResponse es la respuesta del procesador con la URL de
// redirección de la sesión creada.
type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePortalSessionRequest es la petición de sesión del portal de
// facturación.
type CreatePortalSessionRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	ReturnURL  string `json:"return_url"`
}

// PortalSessionResponse es la respuesta del procesador con la URL del
// portal alojado.
type PortalSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
