package models

import "time"

// DailyLog es el registro diario que un miembro del equipo escribe sobre
// el día del niño: estado de ánimo, comidas, sueño e incidencias.
type DailyLog struct {
	ID         int       // Identificador del registro
	ChildID    int       // Niño al que se refiere
	AuthorUID  string    // Cuenta que lo escribió
	LogDate    time.Time // Día al que corresponde
	Mood       int       // Estado de ánimo en escala 1..5
	Summary    string    // Resumen del día
	Meals      string    // Comidas (opcional)
	SleepHours float64   // Horas de sueño (opcional)
	Incidents  string    // Incidencias (opcional)
	CreatedAt  time.Time
}

// DummyDailyLog recibe los datos del registro diario desde JSON.
// La fecha llega como cadena en formato 2006-01-02.
type DummyDailyLog struct {
	LogDate    string  `json:"log_date" validate:"required"`
	Mood       int     `json:"mood" validate:"required,gte=1,lte=5"`
	Summary    string  `json:"summary" validate:"required"`
	Meals      string  `json:"meals,omitempty" validate:"omitempty"`
	SleepHours float64 `json:"sleep_hours,omitempty" validate:"omitempty,gte=0"`
	Incidents  string  `json:"incidents,omitempty" validate:"omitempty"`
}
