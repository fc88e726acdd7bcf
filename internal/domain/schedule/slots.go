package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateSlots emite las horas de inicio entre open y close cada
// durationMinutes. El último slot es el último cuyo inicio cae antes del
// cierre: no se comprueba que la cita completa quepa antes de cerrar
// (si la duración no divide el intervalo, la última cita termina después
// del cierre; comportamiento histórico que hay que conservar).
func GenerateSlots(open, close string, durationMinutes int) ([]string, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidConfig, durationMinutes)
	}

	openMin, err := parseClock(open)
	if err != nil {
		return nil, fmt.Errorf("%w: open time %q", ErrInvalidConfig, open)
	}
	closeMin, err := parseClock(close)
	if err != nil {
		return nil, fmt.Errorf("%w: close time %q", ErrInvalidConfig, close)
	}

	slots := make([]string, 0)
	for cur := openMin; cur < closeMin; cur += durationMinutes {
		slots = append(slots, formatClock(cur))
	}
	return slots, nil
}

// parseClock convierte "HH:MM" a minutos del día.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock out of range %q", s)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
