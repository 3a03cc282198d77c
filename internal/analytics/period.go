package analytics

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frequentation/internal/locale"
	"github.com/frequentation/internal/model"
)

// ErrInvalidPeriod is returned for an unknown period kind or direction.
var ErrInvalidPeriod = errors.New("invalid period")

// PeriodKind is the size of an analysis window.
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
	PeriodYear  PeriodKind = "year"
)

// Direction moves a reference date to the neighbouring period.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// ParsePeriodKind accepts both English and French names ("semaine", "annee").
func ParsePeriodKind(raw string) (PeriodKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "day", "jour":
		return PeriodDay, nil
	case "week", "semaine", "":
		return PeriodWeek, nil
	case "month", "mois":
		return PeriodMonth, nil
	case "year", "annee", "année":
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, raw)
	}
}

// ParseDirection accepts prev/next and their French counterparts.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prev", "previous", "precedent", "précédent":
		return DirectionPrev, nil
	case "next", "suivant":
		return DirectionNext, nil
	default:
		return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidPeriod, raw)
	}
}

// Bounds holds the current window and the equivalent previous one.
// End is clamped to today; PeriodEnd is the calendar end of the period.
// When Start is after today the window has no elapsed day and Elapsed is false.
type Bounds struct {
	Kind      PeriodKind
	Start     time.Time
	End       time.Time
	PeriodEnd time.Time
	PrevStart time.Time
	PrevEnd   time.Time
	Elapsed   bool
}

// PeriodBounds computes the window of kind containing ref. Weeks start on Monday.
func PeriodBounds(kind PeriodKind, ref, today time.Time) (Bounds, error) {
	ref = model.DateOf(ref)
	today = model.DateOf(today)

	var b Bounds
	b.Kind = kind

	switch kind {
	case PeriodDay:
		b.Start, b.PeriodEnd = ref, ref
		b.PrevStart = ref.AddDate(0, 0, -1)
		b.PrevEnd = b.PrevStart
	case PeriodWeek:
		b.Start = startOfWeek(ref)
		b.PeriodEnd = b.Start.AddDate(0, 0, 6)
		b.PrevStart = b.Start.AddDate(0, 0, -7)
		b.PrevEnd = b.Start.AddDate(0, 0, -1)
	case PeriodMonth:
		b.Start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		b.PeriodEnd = b.Start.AddDate(0, 1, -1)
		b.PrevStart = b.Start.AddDate(0, -1, 0)
		b.PrevEnd = b.Start.AddDate(0, 0, -1)
	case PeriodYear:
		b.Start = time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		b.PeriodEnd = time.Date(ref.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		b.PrevStart = b.Start.AddDate(-1, 0, 0)
		b.PrevEnd = b.Start.AddDate(0, 0, -1)
	default:
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, kind)
	}

	b.End = b.PeriodEnd
	if b.End.After(today) {
		b.End = today
	}
	b.Elapsed = !b.Start.After(today)
	return b, nil
}

// ElapsedDays lists every calendar day of the window up to today, in order.
func (b Bounds) ElapsedDays() []time.Time {
	if !b.Elapsed {
		return nil
	}
	days := make([]time.Time, 0, int(b.End.Sub(b.Start).Hours()/24)+1)
	for d := b.Start; !d.After(b.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Label renders the window for display, e.g. "Semaine du 04 mars au 10 mars 2024".
func (b Bounds) Label(language string) string {
	end := b.End
	if !b.Elapsed {
		end = b.PeriodEnd
	}

	switch b.Kind {
	case PeriodDay:
		return locale.LongDate(language, b.Start)
	case PeriodWeek:
		if locale.NormalizeLanguage(language) == locale.LanguageEnglish {
			return fmt.Sprintf("Week of %s to %s, %d", locale.ShortDayMonth(language, b.Start), locale.ShortDayMonth(language, end), end.Year())
		}
		return fmt.Sprintf("Semaine du %s au %s %d", locale.ShortDayMonth(language, b.Start), locale.ShortDayMonth(language, end), end.Year())
	case PeriodMonth:
		return locale.MonthYear(language, b.Start)
	default:
		return strconv.Itoa(b.Start.Year())
	}
}

// Navigate moves ref one period backwards or forwards.
// A forward step into a period that starts after today is refused: ref is
// returned unchanged with ok=false. A forward step into the current period
// lands on today at most.
func Navigate(kind PeriodKind, ref time.Time, direction Direction, today time.Time) (time.Time, bool, error) {
	ref = model.DateOf(ref)
	today = model.DateOf(today)

	sign := 1
	switch direction {
	case DirectionPrev:
		sign = -1
	case DirectionNext:
	default:
		return ref, false, fmt.Errorf("%w: unknown direction %q", ErrInvalidPeriod, direction)
	}

	var next time.Time
	switch kind {
	case PeriodDay:
		next = ref.AddDate(0, 0, sign)
	case PeriodWeek:
		next = ref.AddDate(0, 0, 7*sign)
	case PeriodMonth:
		next = addMonths(ref, sign)
	case PeriodYear:
		next = addMonths(ref, 12*sign)
	default:
		return ref, false, fmt.Errorf("%w: %q", ErrInvalidPeriod, kind)
	}

	if direction == DirectionNext {
		bounds, err := PeriodBounds(kind, next, today)
		if err != nil {
			return ref, false, err
		}
		if !bounds.Elapsed {
			return ref, false, nil
		}
		if next.After(today) {
			next = today
		}
	}
	return next, true, nil
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// addMonths shifts by n months, clamping the day to the target month's length.
func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
