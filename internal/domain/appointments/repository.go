package appointments

import "context"

// Repository persiste citas. Las operaciones *IfFree hacen el chequeo de
// conflicto y la escritura como una sola operación en el storage (la
// versión anterior del sistema leía, decidía y escribía por separado,
// con la carrera que eso implica).
type Repository interface {
	// CreateIfFree inserta la cita salvo que exista otra no cancelada en
	// la misma fecha y hora; en ese caso devuelve ErrConflict.
	CreateIfFree(ctx context.Context, a Appointment) error

	// MoveIfFree reescribe la cita salvo que otra cita no cancelada
	// (distinta de a.ID) ocupe la nueva fecha y hora.
	MoveIfFree(ctx context.Context, a Appointment) error

	// Update reescribe sin chequear slot (cambios de estado).
	Update(ctx context.Context, a Appointment) error

	GetByID(ctx context.Context, id string) (Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListByDate(ctx context.Context, date string) ([]Appointment, error)
	ListByPet(ctx context.Context, petID string) ([]Appointment, error)
	Delete(ctx context.Context, id string) error
}
