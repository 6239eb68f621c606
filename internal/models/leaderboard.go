package models

import (
	"time"

	"github.com/google/uuid"
)

// Window — временное окно лидерборда.
type Window string

const (
	WindowHour  Window = "hour"
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowYear  Window = "year"
)

// Windows — фиксированный порядок fan-out: от самого мелкого окна к крупному.
var Windows = []Window{WindowHour, WindowToday, WindowWeek, WindowMonth, WindowYear}

// Valid сообщает, что окно входит в число известных.
func (w Window) Valid() bool {
	for _, known := range Windows {
		if w == known {
			return true
		}
	}

	return false
}

// LeaderboardEntry — запись лидерборда; ключ внутри окна — (Category, PhotoID).
type LeaderboardEntry struct {
	Category string
	PhotoID  uuid.UUID
	PostDate time.Time
}
