package schedule

import "time"

// Weekday es la clave con la que el horario guarda cada día.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays en orden de calendario (lunes primero, como en la grilla de la clínica).
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DayConfig es la franja de atención de un día de la semana.
type DayConfig struct {
	Active bool   `json:"active"`
	Open   string `json:"open"`  // HH:MM
	Close  string `json:"close"` // HH:MM
}

// Config es el horario semanal de la clínica. Singleton: se reemplaza
// completo al guardar, nunca se parchea campo a campo.
type Config struct {
	SlotDurationMinutes   int                   `json:"slot_duration_minutes"`
	MaxAppointmentsPerDay int                   `json:"max_appointments_per_day"`
	Days                  map[Weekday]DayConfig `json:"days"`
}

// DefaultConfig es el horario que se siembra en el primer uso:
// lunes a viernes 09:00-18:00, sábado hasta las 13:00, domingo cerrado.
func DefaultConfig() Config {
	days := map[Weekday]DayConfig{
		Monday:    {Active: true, Open: "09:00", Close: "18:00"},
		Tuesday:   {Active: true, Open: "09:00", Close: "18:00"},
		Wednesday: {Active: true, Open: "09:00", Close: "18:00"},
		Thursday:  {Active: true, Open: "09:00", Close: "18:00"},
		Friday:    {Active: true, Open: "09:00", Close: "18:00"},
		Saturday:  {Active: true, Open: "09:00", Close: "13:00"},
		Sunday:    {Active: false, Open: "00:00", Close: "00:00"},
	}
	return Config{
		SlotDurationMinutes:   30,
		MaxAppointmentsPerDay: 20,
		Days:                  days,
	}
}

// Holiday es un día festivo puntual; ese día no hay atención aunque el
// horario semanal diga lo contrario.
type Holiday struct {
	ID        string
	Date      string // YYYY-MM-DD
	Reason    string
	CreatedAt time.Time
}

// DayStatus clasifica un día del calendario para la vista semanal.
type DayStatus string

const (
	DayOpen    DayStatus = "open"
	DayClosed  DayStatus = "closed"
	DayHoliday DayStatus = "holiday"
)
