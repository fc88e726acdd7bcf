package appointments

import (
	"context"
	"strings"
	"time"

	"vitalpet/internal/domain/schedule"
)

// WeekSlot es un slot de la grilla semanal con su ocupación.
type WeekSlot struct {
	Time     string `json:"time"`
	Occupied bool   `json:"occupied"`
}

type WeekDay struct {
	Date    string             `json:"date"`
	Weekday schedule.Weekday   `json:"weekday"`
	Status  schedule.DayStatus `json:"status"`
	Slots   []WeekSlot         `json:"slots"`
}

type WeekView struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Days  []WeekDay `json:"days"`
}

// ComputeWeekView arma la grilla de 7 días a partir de weekStart.
// El inicio de semana es un parámetro explícito: acá no vive ningún
// cursor de "semana actual", eso es problema de la UI.
func (s *Service) ComputeWeekView(ctx context.Context, weekStart string) (WeekView, error) {
	start, err := time.Parse(dateLayout, strings.TrimSpace(weekStart))
	if err != nil {
		return WeekView{}, ErrInvalidInput
	}

	view := WeekView{
		Start: start.Format(dateLayout),
		End:   start.AddDate(0, 0, 6).Format(dateLayout),
		Days:  make([]WeekDay, 0, 7),
	}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := day.Format(dateLayout)

		status, candidates, err := s.sched.SlotsForDate(ctx, date)
		if err != nil {
			return WeekView{}, err
		}

		wd := WeekDay{
			Date:    date,
			Weekday: schedule.WeekdayOf(day),
			Status:  status,
			Slots:   []WeekSlot{},
		}

		if status == schedule.DayOpen {
			occupied, err := s.occupiedTimes(ctx, date, "")
			if err != nil {
				return WeekView{}, err
			}
			for _, slot := range candidates {
				wd.Slots = append(wd.Slots, WeekSlot{Time: slot, Occupied: occupied[slot]})
			}
		}

		view.Days = append(view.Days, wd)
	}
	return view, nil
}
