package models

import "time"

// Estados de una meta de desarrollo.
const (
	GoalStatusActive   = "active"
	GoalStatusAchieved = "achieved"
	GoalStatusArchived = "archived"
)

// Goal representa una meta de desarrollo del niño con un valor objetivo
// numérico contra el que se registra el progreso.
type Goal struct {
	ID          int       // Identificador de la meta
	ChildID     int       // Niño al que pertenece
	Title       string    // Título de la meta
	Area        string    // Área de desarrollo (comunicación, motricidad...)
	TargetValue int       // Valor objetivo
	Status      string    // active, achieved o archived
	CreatedAt   time.Time
}

// DummyGoal recibe los datos de creación de una meta desde JSON.
type DummyGoal struct {
	Title       string `json:"title" validate:"required"`
	Area        string `json:"area" validate:"required"`
	TargetValue int    `json:"target_value" validate:"required,gt=0"`
}

// DummyGoalStatus recibe el cambio de estado de una meta desde JSON.
type DummyGoalStatus struct {
	Status string `json:"status" validate:"required,oneof=active achieved archived"`
}

// GoalProgress es una medición puntual del avance hacia una meta.
type GoalProgress struct {
	ID         int       // Identificador de la medición
	GoalID     int       // Meta a la que corresponde
	AuthorUID  string    // Cuenta que la registró
	RecordedAt time.Time // Momento de la medición
	Value      int       // Valor medido
	Note       string    // Observación (opcional)
}

// DummyGoalProgress recibe una medición de progreso desde JSON.
type DummyGoalProgress struct {
	Value int    `json:"value" validate:"required,gte=0"`
	Note  string `json:"note,omitempty" validate:"omitempty"`
}

// GoalSummary resume el estado de una meta dentro del informe de progreso.
type GoalSummary struct {
	GoalID          int     `json:"goal_id"`
	Title           string  `json:"title"`
	Area            string  `json:"area"`
	Status          string  `json:"status"`
	TargetValue     int     `json:"target_value"`
	LatestValue     int     `json:"latest_value"`
	PercentToTarget float64 `json:"percent_to_target"`
	Trend           string  `json:"trend"` // improving, steady o declining
	Entries         int     `json:"entries"`
}

// ChildReport agrega las metas y registros diarios de un niño en una
// ventana de tiempo para el informe clínico.
type ChildReport struct {
	ChildID     int           `json:"child_id"`
	From        time.Time     `json:"from"`
	To          time.Time     `json:"to"`
	MoodAverage float64       `json:"mood_average"`
	LogCount    int           `json:"log_count"`
	Goals       []GoalSummary `json:"goals"`
}
