package models

import "time"

// PushSubscription es una suscripción web push registrada por el
// navegador de una cuenta. Se elimina cuando el endpoint responde 410.
type PushSubscription struct {
	ID         int       // Identificador interno
	AccountUID string    // Cuenta propietaria
	Endpoint   string    // URL del endpoint push (única)
	P256dhKey  string    // Clave pública del cliente
	AuthKey    string    // Secreto de autenticación del cliente
	CreatedAt  time.Time
}

// DummyPushSubscription recibe el objeto PushSubscription serializado
// por el navegador.
type DummyPushSubscription struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// DummyPushUnsubscribe recibe el endpoint a dar de baja desde JSON.
type DummyPushUnsubscribe struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
}

// PushPayload es el cuerpo JSON que se entrega a cada endpoint push.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	URL   string `json:"url,omitempty"`
}

// NotificationJob es el mensaje publicado en RabbitMQ para que el
// servicio emisor resuelva las suscripciones de cada destinatario y
// envíe los pushes.
type NotificationJob struct {
	RecipientUIDs []string    `json:"recipient_uids"`
	Payload       PushPayload `json:"payload"`
}
