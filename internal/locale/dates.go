package locale

import (
	"fmt"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

var frenchShortMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

var frenchWeekdays = [...]string{
	"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
}

// MonthName returns the full month name ("mars", "March").
func MonthName(language string, month time.Month) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return month.String()
	}
	return frenchMonths[month-1]
}

// ShortMonthName returns the abbreviated month name ("févr.", "Feb").
func ShortMonthName(language string, month time.Month) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return month.String()[:3]
	}
	return frenchShortMonths[month-1]
}

// WeekdayName returns the full weekday name ("lundi", "Monday").
func WeekdayName(language string, day time.Weekday) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return day.String()
	}
	return frenchWeekdays[day]
}

// DayMonth renders "04 mars" / "March 04".
func DayMonth(language string, t time.Time) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return fmt.Sprintf("%s %02d", MonthName(language, t.Month()), t.Day())
	}
	return fmt.Sprintf("%02d %s", t.Day(), MonthName(language, t.Month()))
}

// ShortDayMonth renders "04 mars" / "Mar 04" with abbreviated months.
func ShortDayMonth(language string, t time.Time) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return fmt.Sprintf("%s %02d", ShortMonthName(language, t.Month()), t.Day())
	}
	return fmt.Sprintf("%02d %s", t.Day(), ShortMonthName(language, t.Month()))
}

// LongDate renders "lundi 04 mars 2024" / "Monday, March 04, 2024".
func LongDate(language string, t time.Time) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		return fmt.Sprintf("%s, %s, %d", WeekdayName(language, t.Weekday()), DayMonth(language, t), t.Year())
	}
	return fmt.Sprintf("%s %s %d", WeekdayName(language, t.Weekday()), DayMonth(language, t), t.Year())
}

// MonthYear renders "mars 2024" / "March 2024".
func MonthYear(language string, t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(language, t.Month()), t.Year())
}
