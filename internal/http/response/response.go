// Package response contiene los tipos y funciones para formar las
// respuestas JSON unificadas de los manejadores HTTP: éxitos, errores y
// mensajes de validación en un mismo formato.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response describe la estructura estándar de respuesta del servidor.
// Status es "OK" o "Error"; Error lleva el texto del fallo y Data los
// datos del éxito, ambos opcionales.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse es la estructura de error usada en la documentación
// Swagger como tipo de retorno de los @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK es el valor de estado de una respuesta exitosa.
	StatusOK = "OK"
	// StatusError es el valor de estado de una respuesta con error.
	StatusError = "Error"
)

// OKWithData devuelve un Response exitoso con los datos indicados.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error devuelve un ErrorResponse con el mensaje indicado.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError forma un Response de error a partir de las
// violaciones de validación, unidas en un texto legible.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "alphanum":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers and letters", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "gte", "lte", "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is out of range", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has an unsupported value", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
