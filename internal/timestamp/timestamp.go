// Package timestamp convertit les horodatages TTML ([[HH:]MM:]SS[.fff])
// en millisecondes entières et inversement.
package timestamp

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Infinity représente une borne non définie. Format le rend sous la forme "99:99.999".
const Infinity int64 = math.MaxInt64

const infinitySentinel = "99:99.999"

// ErrInvalidTimespan est renvoyée quand la chaîne ne respecte pas [[HH:]MM:]SS[.fff].
var ErrInvalidTimespan = errors.New("horodatage invalide")

var timespanRe = regexp.MustCompile(`^(?:(?:([0-9]+):)?([0-9]+):)?([0-9]+)(?:\.([0-9]{1,3}))?$`)

// Parse lit un horodatage TTML et retourne sa valeur en millisecondes.
// La fraction (1 à 3 chiffres) est complétée à droite : ".5" -> 500 ms.
func Parse(s string) (int64, error) {
	m := timespanRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimespan, s)
	}

	var hours, mins, secs, frac int64
	var err error
	if m[1] != "" {
		if hours, err = strconv.ParseInt(m[1], 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimespan, s, err)
		}
	}
	if m[2] != "" {
		if mins, err = strconv.ParseInt(m[2], 10, 64); err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimespan, s, err)
		}
	}
	if secs, err = strconv.ParseInt(m[3], 10, 64); err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimespan, s, err)
	}
	if m[4] != "" {
		// compléter à droite jusqu'aux millisecondes
		digits := m[4] + strings.Repeat("0", 3-len(m[4]))
		frac, _ = strconv.ParseInt(digits, 10, 64)
	}

	return (hours*3600+mins*60+secs)*1000 + frac, nil
}

// MustParse est la variante qui panique, réservée aux tests et aux constantes.
func MustParse(s string) int64 {
	ms, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ms
}

// Format rend ms en "MM:SS.mmm", ou "HH:MM:SS.mmm" au-delà d'une heure.
// Les valeurs négatives sont ramenées à 0.
func Format(ms int64) string {
	return format(ms, true)
}

// FormatNoMillis rend ms sans la partie fractionnaire ("MM:SS" / "HH:MM:SS").
func FormatNoMillis(ms int64) string {
	return format(ms, false)
}

func format(ms int64, withMillis bool) string {
	if ms == Infinity {
		return infinitySentinel
	}
	if ms < 0 {
		ms = 0
	}

	frac := ms % 1000
	total := ms / 1000
	secs := total % 60
	mins := (total / 60) % 60
	hours := total / 3600

	var b strings.Builder
	if hours > 0 {
		fmt.Fprintf(&b, "%02d:", hours)
	}
	fmt.Fprintf(&b, "%02d:%02d", mins, secs)
	if withMillis {
		fmt.Fprintf(&b, ".%03d", frac)
	}
	return b.String()
}

// FromFloat arrondit une valeur flottante en millisecondes entières (NaN -> 0).
func FromFloat(ms float64) int64 {
	if math.IsNaN(ms) || ms < 0 {
		return 0
	}
	if math.IsInf(ms, 1) {
		return Infinity
	}
	return int64(math.Round(ms))
}
