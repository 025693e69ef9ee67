package calc

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrUnknownMethod = errors.New("unknown calculation method")
	ErrUnknownSchool = errors.New("unknown asr school")
)

// Method is a set of twilight angles used to place Fajr and Isha.
// When IshaMinutes is non-zero Isha is a fixed offset after Maghrib and
// IshaAngle is ignored.
type Method struct {
	Name        string
	Description string
	FajrAngle   float64
	IshaAngle   float64
	IshaMinutes int
}

// Methods lists the supported calculation methods.
var Methods = []Method{
	{Name: "MWL", Description: "Muslim World League", FajrAngle: 18.0, IshaAngle: 17.0},
	{Name: "ISNA", Description: "Islamic Society of North America", FajrAngle: 15.0, IshaAngle: 15.0},
	{Name: "Egypt", Description: "Egyptian General Authority of Survey", FajrAngle: 19.5, IshaAngle: 17.5},
	{Name: "Makkah", Description: "Umm Al-Qura University, Makkah", FajrAngle: 18.5, IshaMinutes: 90},
	{Name: "Karachi", Description: "University of Islamic Sciences, Karachi", FajrAngle: 18.0, IshaAngle: 18.0},
	{Name: "Tehran", Description: "Institute of Geophysics, University of Tehran", FajrAngle: 17.7, IshaAngle: 14.0},
	{Name: "Jafari", Description: "Shia Ithna-Ashari (Jafari)", FajrAngle: 16.0, IshaAngle: 14.0},
}

// DefaultMethod is used when no method is configured.
const DefaultMethod = "ISNA"

// School selects the shadow length that marks the start of Asr.
type School struct {
	Name         string
	Description  string
	ShadowFactor float64
}

// Schools lists the supported Asr juristic schools.
var Schools = []School{
	{Name: "Standard", Description: "Shafi'i, Maliki, Hanbali", ShadowFactor: 1},
	{Name: "Hanafi", Description: "Hanafi", ShadowFactor: 2},
}

// DefaultSchool is used when no school is configured.
const DefaultSchool = "Standard"

// LookupMethod finds a method by name, ignoring case.
func LookupMethod(name string) (Method, error) {
	for _, m := range Methods {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Method{}, errors.WithHintf(errors.Wrapf(ErrUnknownMethod, "%q", name),
		"valid methods: %s", strings.Join(MethodNames(), ", "))
}

// LookupSchool finds an Asr school by name, ignoring case.
func LookupSchool(name string) (School, error) {
	for _, s := range Schools {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return School{}, errors.WithHint(errors.Wrapf(ErrUnknownSchool, "%q", name),
		"valid schools: Standard, Hanafi")
}

// MethodNames returns the method names in table order.
func MethodNames() []string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = m.Name
	}
	return names
}
