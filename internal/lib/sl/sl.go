// Package sl contiene ayudas para el logger slog, en particular la
// construcción uniforme del atributo de error.
package sl

import "log/slog"

// Err devuelve un slog.Attr con clave "error" y el texto del error.
//
// Ejemplo:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
