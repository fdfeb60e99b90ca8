package middlewarectx

// Key tipo para las claves de contexto de la petición HTTP.
type Key string

const (
	// User es la clave del nombre de usuario en el contexto.
	User Key = "username"
	// Role es la clave del rol de la cuenta en el contexto.
	Role Key = "role"
	// UserUID es la clave del UID de la cuenta en el contexto.
	UserUID Key = "user_uid"
)
