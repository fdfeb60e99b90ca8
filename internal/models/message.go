package models

import "time"

// Message es un mensaje del equipo de cuidado dentro del hilo de un niño.
type Message struct {
	ID        int       // Identificador del mensaje
	ChildID   int       // Hilo (niño) al que pertenece
	SenderUID string    // Cuenta emisora
	Body      string    // Cuerpo del mensaje
	CreatedAt time.Time
	ReadBy    []string // UIDs con acuse de lectura
}

// DummyMessage recibe el cuerpo de un mensaje nuevo desde JSON.
type DummyMessage struct {
	Body string `json:"body" validate:"required"`
}
