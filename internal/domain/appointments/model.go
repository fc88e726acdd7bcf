package appointments

import "time"

// Status es el estado de una cita.
// @Enum pending, completed, cancelled, postponed
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusPostponed Status = "postponed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled, StatusPostponed:
		return true
	}
	return false
}

// Terminal: de completed/cancelled no se sale.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Schedulable: la cita sigue ocupando agenda y admite transiciones.
// Una cita aplazada vuelve a comportarse como pendiente.
func (s Status) Schedulable() bool {
	return s == StatusPending || s == StatusPostponed
}

// Appointment es una cita de la clínica. Fecha y hora se manejan como
// strings calendario (YYYY-MM-DD / HH:MM) en la zona local de la
// clínica; la igualdad de slot es igualdad de strings.
type Appointment struct {
	ID    string
	PetID string

	Date   string // YYYY-MM-DD
	Time   string // HH:MM
	Reason string

	Status    Status
	CreatedAt time.Time

	CompletedAt *time.Time
	CancelledAt *time.Time

	// Se fijan al aplazar y quedan como historial. Un nuevo aplazo
	// los sobreescribe con la fecha/hora previas a ese aplazo.
	OriginalDate   string
	OriginalTime   string
	PostponeReason string
}
