// Package calc computes a day's prayer times for a location from the sun's
// position.
//
// Sunrise, sunset and the twilight angles come from go-sunrise. The sun's
// declination and the equation of time are computed here because Asr's
// target altitude depends on the declination and Dhuhr needs a fallback at
// latitudes where the sun neither rises nor sets.
package calc

import (
	"math"
	"sync"
	"time"
	// Embedded zone data so zone names resolve on hosts without a tz database.
	_ "time/tzdata"

	"github.com/cockroachdb/errors"
	"github.com/nathan-osman/go-sunrise"
	"github.com/ringsaturn/tzf"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// horizonAltitude is the sun's altitude at sunrise and sunset, accounting for
// refraction and the solar disc.
const horizonAltitude = -0.8333

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Params selects the location, day and conventions for Compute.
type Params struct {
	Latitude  float64
	Longitude float64
	// Date is the calendar day to compute; only its year, month and day are used.
	Date   time.Time
	Method string
	School string
	// Location is the timezone for the returned times. When nil it is looked
	// up from the coordinates.
	Location *time.Location
}

// Result is one computed prayer time. Time is nil when the sun never reaches
// the required altitude on that day (polar day or night).
type Result struct {
	Name string
	Time *time.Time
}

// Compute returns Fajr, Sunrise, Dhuhr, Asr, Maghrib and Isha for p, in that order.
func Compute(p Params) ([]Result, error) {
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return nil, errors.Wrapf(ErrInvalidCoordinates, "lat=%v lng=%v", p.Latitude, p.Longitude)
	}
	if p.Method == "" {
		p.Method = DefaultMethod
	}
	if p.School == "" {
		p.School = DefaultSchool
	}
	method, err := LookupMethod(p.Method)
	if err != nil {
		return nil, err
	}
	school, err := LookupSchool(p.School)
	if err != nil {
		return nil, err
	}

	loc := p.Location
	if loc == nil {
		loc = LocationFor(p.Latitude, p.Longitude)
	}
	date := p.Date
	if date.IsZero() {
		date = time.Now().In(loc)
	}
	y, m, d := date.Date()
	lat, lng := p.Latitude, p.Longitude

	decl, eqt := sunPosition(julianDate(y, int(m), d))

	rise, set := sunrise.TimeOfElevation(lat, lng, horizonAltitude, y, m, d)

	var dhuhr time.Time
	if !rise.IsZero() && !set.IsZero() {
		dhuhr = rise.Add(set.Sub(rise) / 2)
	} else {
		dhuhr = utcHours(y, m, d, 12-eqt-lng/15)
	}

	fajr, _ := sunrise.TimeOfElevation(lat, lng, -method.FajrAngle, y, m, d)

	_, asr := sunrise.TimeOfElevation(lat, lng, asrAltitude(school.ShadowFactor, lat, decl), y, m, d)

	var isha time.Time
	if method.IshaMinutes > 0 {
		if !set.IsZero() {
			isha = set.Add(time.Duration(method.IshaMinutes) * time.Minute)
		}
	} else {
		_, isha = sunrise.TimeOfElevation(lat, lng, -method.IshaAngle, y, m, d)
	}

	times := []time.Time{fajr, rise, dhuhr, asr, set, isha}
	results := make([]Result, len(prayer.Names))
	for i, name := range prayer.Names {
		results[i] = Result{Name: name, Time: inLocation(times[i], loc)}
	}
	return results, nil
}

// Schedule drops prayers without a time and returns the rest as a schedule.
func Schedule(results []Result) []prayer.Prayer {
	schedule := make([]prayer.Prayer, 0, len(results))
	for _, r := range results {
		if r.Time == nil {
			continue
		}
		schedule = append(schedule, prayer.Prayer{Name: r.Name, Time: *r.Time})
	}
	prayer.Sort(schedule)
	return schedule
}

var (
	finderOnce sync.Once
	finder     tzf.F
	finderErr  error
)

// LocationFor returns the timezone containing the coordinates, or UTC when it
// cannot be determined.
func LocationFor(lat, lng float64) *time.Location {
	finderOnce.Do(func() {
		finder, finderErr = tzf.NewDefaultFinder()
	})
	if finderErr != nil {
		log.Warn().Err(finderErr).Msg("timezone finder unavailable, using UTC")
		return time.UTC
	}

	name := finder.GetTimezoneName(lng, lat)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("cannot load timezone, using UTC")
		return time.UTC
	}
	return loc
}

func inLocation(t time.Time, loc *time.Location) *time.Time {
	if t.IsZero() {
		return nil
	}
	local := t.In(loc)
	return &local
}

// julianDate returns the Julian date at 0h UT of the given Gregorian day.
func julianDate(year, month, day int) float64 {
	if month <= 2 {
		year--
		month += 12
	}
	a := math.Floor(float64(year) / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*float64(year+4716)) + math.Floor(30.6001*float64(month+1)) + float64(day) + b - 1524.5
}

// sunPosition returns the sun's declination in radians and the equation of
// time in hours.
func sunPosition(jd float64) (float64, float64) {
	d := jd - 2451545.0

	g := radians(math.Mod(357.529+0.98560028*d, 360))
	q := math.Mod(280.459+0.98564736*d, 360)
	l := radians(math.Mod(q+1.915*math.Sin(g)+0.020*math.Sin(2*g), 360))

	e := radians(23.439 - 0.00000036*d)

	ra := degrees(math.Atan2(math.Cos(e)*math.Sin(l), math.Cos(l))) / 15
	ra = math.Mod(ra+24, 24)

	decl := math.Asin(math.Sin(e) * math.Sin(l))
	eqt := q/15 - ra
	// Keep the equation of time within half a day of zero.
	if eqt > 12 {
		eqt -= 24
	} else if eqt < -12 {
		eqt += 24
	}
	return decl, eqt
}

// asrAltitude is the sun's altitude in degrees when an object's shadow
// equals factor times its height plus its noon shadow.
func asrAltitude(factor, latitude, declination float64) float64 {
	return degrees(math.Atan(1 / (factor + math.Tan(math.Abs(radians(latitude)-declination)))))
}

func utcHours(year int, month time.Month, day int, hours float64) time.Time {
	secs := int64(math.Round(hours * 3600))
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(time.Duration(secs) * time.Second)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
