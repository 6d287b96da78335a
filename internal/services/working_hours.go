package services

import (
	"time"

	"github.com/replydeck/backend/internal/models"
)

// Business-hours window in local wall-clock time. The close hour is
// exclusive: 17:00 is already outside the window.
const (
	WorkingHoursOpen  = 9
	WorkingHoursClose = 17
)

// WorkingHoursService decides whether auto-replies may go out at a given
// moment. The hour window is fixed; holiday skipping is optional per setting.
type WorkingHoursService struct {
	holidays *HolidayService
}

func NewWorkingHoursService(holidays *HolidayService) *WorkingHoursService {
	return &WorkingHoursService{holidays: holidays}
}

// IsOpenAt reports whether t falls inside the working-hours window.
// When the setting enables holiday skipping, a full holiday closes the
// whole day regardless of the hour.
func (s *WorkingHoursService) IsOpenAt(t time.Time, setting *models.AutoReplySetting) bool {
	if setting != nil && setting.SkipHolidays && s.holidays != nil {
		if s.holidays.IsHoliday(t, setting.HolidayCountry) {
			return false
		}
	}

	hour := t.Hour()
	return hour >= WorkingHoursOpen && hour < WorkingHoursClose
}

// IsOpenNow is IsOpenAt against the current wall clock. Local server time
// is used; there is no per-tenant timezone setting.
func (s *WorkingHoursService) IsOpenNow(setting *models.AutoReplySetting) bool {
	return s.IsOpenAt(time.Now(), setting)
}
