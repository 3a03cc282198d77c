package locale

import (
	"testing"
	"time"
)

func TestNormalizeLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "fr", want: LanguageFrench},
		{input: "fr-FR", want: LanguageFrench},
		{input: "FR_be", want: LanguageFrench},
		{input: "en", want: LanguageEnglish},
		{input: "en-US", want: LanguageEnglish},
		{input: "zh", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := NormalizeLanguage(tc.input); got != tc.want {
			t.Fatalf("NormalizeLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLanguageFromAcceptLanguage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "fr-FR,fr;q=0.9,en;q=0.8", want: LanguageFrench},
		{input: "de-DE, en-GB;q=0.7", want: LanguageEnglish},
		{input: "de-DE", want: ""},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := LanguageFromAcceptLanguage(tc.input); got != tc.want {
			t.Fatalf("LanguageFromAcceptLanguage(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPreferenceForLanguage(t *testing.T) {
	if pref := PreferenceForLanguage("en"); pref.HTMLLang != "en-US" {
		t.Fatalf("unexpected english preference: %+v", pref)
	}
	if pref := PreferenceForLanguage("unknown"); pref.Language != LanguageFrench || pref.Locale != "fr_FR" {
		t.Fatalf("expected french fallback, got %+v", pref)
	}
}

func TestPick(t *testing.T) {
	if got := Pick("en", "Hello", "Bonjour"); got != "Hello" {
		t.Fatalf("expected english text, got %q", got)
	}
	if got := Pick("fr", "Hello", "Bonjour"); got != "Bonjour" {
		t.Fatalf("expected french text, got %q", got)
	}
	if got := Pick("en", "", "Bonjour"); got != "Bonjour" {
		t.Fatalf("expected fallback to french, got %q", got)
	}
}

func TestDateFormatting(t *testing.T) {
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		got  string
		want string
	}{
		{name: "long fr", got: LongDate("fr", day), want: "lundi 04 mars 2024"},
		{name: "long en", got: LongDate("en", day), want: "Monday, March 04, 2024"},
		{name: "day month fr", got: DayMonth("fr", day), want: "04 mars"},
		{name: "short fr", got: ShortDayMonth("fr", day.AddDate(0, -1, 0)), want: "04 févr."},
		{name: "short en", got: ShortDayMonth("en", day), want: "Mar 04"},
		{name: "month year fr", got: MonthYear("fr", day), want: "mars 2024"},
		{name: "month year en", got: MonthYear("en", day), want: "March 2024"},
		{name: "short month fr", got: ShortMonthName("fr", time.August), want: "août"},
	}

	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, tc.got, tc.want)
		}
	}
}
