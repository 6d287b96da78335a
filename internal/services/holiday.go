package services

import (
	"time"

	"github.com/6tail/lunar-go/HolidayUtil"
	"github.com/6tail/lunar-go/calendar"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/au"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/es"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/it"
	"github.com/rickar/cal/v2/jp"
	"github.com/rickar/cal/v2/nl"
	"github.com/rickar/cal/v2/us"
)

// HolidayService answers whether a given date is a working day in the
// configured country. Country code "NONE" means plain Mon-Fri weekdays.
type HolidayService struct {
	calendars map[string]*cal.BusinessCalendar
}

func NewHolidayService() *HolidayService {
	s := &HolidayService{
		calendars: make(map[string]*cal.BusinessCalendar),
	}
	s.initCalendars()
	return s
}

func (s *HolidayService) initCalendars() {
	s.calendars["US"] = s.newCalendar("United States", us.Holidays...)
	s.calendars["GB"] = s.newCalendar("United Kingdom", gb.Holidays...)
	s.calendars["DE"] = s.newCalendar("Germany", de.Holidays...)
	s.calendars["FR"] = s.newCalendar("France", fr.Holidays...)
	s.calendars["ES"] = s.newCalendar("Spain", es.Holidays...)
	s.calendars["IT"] = s.newCalendar("Italy", it.Holidays...)
	s.calendars["NL"] = s.newCalendar("Netherlands", nl.Holidays...)
	s.calendars["JP"] = s.newCalendar("Japan", jp.Holidays...)
	s.calendars["AU"] = s.newCalendar("Australia", au.HolidaysNSW...)
	s.calendars["CA"] = s.newCalendar("Canada", ca.Holidays...)
}

func (s *HolidayService) newCalendar(name string, holidays ...*cal.Holiday) *cal.BusinessCalendar {
	c := cal.NewBusinessCalendar()
	c.Name = name
	c.AddHoliday(holidays...)
	return c
}

func (s *HolidayService) IsWorkday(t time.Time, countryCode string) bool {
	if countryCode == "CN" {
		return s.isWorkdayChina(t)
	}

	if countryCode == "NONE" || countryCode == "" {
		return !cal.IsWeekend(t)
	}

	c, ok := s.calendars[countryCode]
	if !ok {
		return !cal.IsWeekend(t)
	}

	return c.IsWorkday(t)
}

// isWorkdayChina consults the statutory holiday table, which also covers
// compensated working weekends.
func (s *HolidayService) isWorkdayChina(t time.Time) bool {
	solar := calendar.NewSolarFromDate(t)
	holiday := HolidayUtil.GetHolidayByYmd(solar.GetYear(), solar.GetMonth(), solar.GetDay())

	if holiday != nil {
		return holiday.IsWork()
	}

	weekday := t.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}

func (s *HolidayService) IsHoliday(t time.Time, countryCode string) bool {
	return !s.IsWorkday(t, countryCode)
}

type CountryInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *HolidayService) GetSupportedCountries() []CountryInfo {
	return []CountryInfo{
		{Code: "NONE", Name: "Weekdays Only (Mon-Fri)"},
		{Code: "US", Name: "United States"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "DE", Name: "Germany"},
		{Code: "FR", Name: "France"},
		{Code: "ES", Name: "Spain"},
		{Code: "IT", Name: "Italy"},
		{Code: "NL", Name: "Netherlands"},
		{Code: "JP", Name: "Japan"},
		{Code: "AU", Name: "Australia"},
		{Code: "CA", Name: "Canada"},
		{Code: "CN", Name: "China"},
	}
}
