package calc

import (
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var riyadhZone = time.FixedZone("AST", 3*60*60)

func riyadhParams() Params {
	return Params{
		Latitude:  24.7136,
		Longitude: 46.6753,
		Date:      time.Date(2026, 2, 28, 0, 0, 0, 0, riyadhZone),
		Method:    "ISNA",
		School:    "Standard",
		Location:  riyadhZone,
	}
}

func byName(t *testing.T, results []Result, name string) time.Time {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			require.NotNil(t, r.Time, "%s has no time", name)
			return *r.Time
		}
	}
	t.Fatalf("no result named %s", name)
	return time.Time{}
}

func TestCompute_OrderAndPlausibility(t *testing.T) {
	results, err := Compute(riyadhParams())
	require.NoError(t, err)
	require.Len(t, results, 6)

	want := []string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}
	for i, r := range results {
		assert.Equal(t, want[i], r.Name)
		require.NotNil(t, r.Time, "%s has no time", r.Name)
		assert.Equal(t, riyadhZone, r.Time.Location())
		if i > 0 {
			assert.True(t, r.Time.After(*results[i-1].Time), "%s not after %s", r.Name, results[i-1].Name)
		}
	}

	dhuhr := byName(t, results, "Dhuhr")
	assert.Equal(t, 28, dhuhr.Day())
	noon := time.Date(2026, 2, 28, 12, 0, 0, 0, riyadhZone)
	assert.InDelta(t, 0, dhuhr.Sub(noon).Minutes(), 30, "Dhuhr should be near midday, got %s", dhuhr)
}

func TestCompute_HanafiAsrIsLater(t *testing.T) {
	standard, err := Compute(riyadhParams())
	require.NoError(t, err)

	p := riyadhParams()
	p.School = "hanafi"
	hanafi, err := Compute(p)
	require.NoError(t, err)

	assert.True(t, byName(t, hanafi, "Asr").After(byName(t, standard, "Asr")))
	assert.Equal(t, byName(t, standard, "Fajr"), byName(t, hanafi, "Fajr"))
}

func TestCompute_MakkahIshaFollowsMaghrib(t *testing.T) {
	p := riyadhParams()
	p.Method = "Makkah"
	results, err := Compute(p)
	require.NoError(t, err)

	maghrib := byName(t, results, "Maghrib")
	isha := byName(t, results, "Isha")
	assert.Equal(t, 90*time.Minute, isha.Sub(maghrib))
}

func TestCompute_SteeperFajrAngleIsEarlier(t *testing.T) {
	isna, err := Compute(riyadhParams())
	require.NoError(t, err)

	p := riyadhParams()
	p.Method = "Egypt"
	egypt, err := Compute(p)
	require.NoError(t, err)

	assert.True(t, byName(t, egypt, "Fajr").Before(byName(t, isna, "Fajr")))
	assert.True(t, byName(t, egypt, "Isha").After(byName(t, isna, "Isha")))
}

func TestCompute_Defaults(t *testing.T) {
	p := riyadhParams()
	p.Method = ""
	p.School = ""
	results, err := Compute(p)
	require.NoError(t, err)

	explicit, err := Compute(riyadhParams())
	require.NoError(t, err)
	assert.Equal(t, byName(t, explicit, "Isha"), byName(t, results, "Isha"))
}

func TestCompute_PolarNight(t *testing.T) {
	p := Params{
		Latitude:  78.2232,
		Longitude: 15.6267,
		Date:      time.Date(2026, 12, 21, 0, 0, 0, 0, time.UTC),
		Method:    "Makkah",
		Location:  time.UTC,
	}
	results, err := Compute(p)
	require.NoError(t, err)

	for _, r := range results {
		switch r.Name {
		case "Sunrise", "Maghrib", "Isha":
			assert.Nil(t, r.Time, "%s should have no time during polar night", r.Name)
		case "Dhuhr":
			assert.NotNil(t, r.Time, "Dhuhr falls back to solar noon")
		}
	}

	schedule := Schedule(results)
	for _, s := range schedule {
		assert.NotEqual(t, "Sunrise", s.Name)
	}
}

func TestCompute_Errors(t *testing.T) {
	p := riyadhParams()
	p.Method = "Nope"
	_, err := Compute(p)
	assert.True(t, errors.Is(err, ErrUnknownMethod))

	p = riyadhParams()
	p.School = "Nope"
	_, err = Compute(p)
	assert.True(t, errors.Is(err, ErrUnknownSchool))

	p = riyadhParams()
	p.Latitude = 91
	_, err = Compute(p)
	assert.True(t, errors.Is(err, ErrInvalidCoordinates))

	p = riyadhParams()
	p.Longitude = -181
	_, err = Compute(p)
	assert.True(t, errors.Is(err, ErrInvalidCoordinates))
}

func TestSchedule_SkipsMissingAndSorts(t *testing.T) {
	a := time.Date(2026, 2, 28, 5, 0, 0, 0, time.UTC)
	b := time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC)
	results := []Result{
		{Name: "Dhuhr", Time: &b},
		{Name: "Sunrise"},
		{Name: "Fajr", Time: &a},
	}

	schedule := Schedule(results)
	require.Len(t, schedule, 2)
	assert.Equal(t, "Fajr", schedule[0].Name)
	assert.Equal(t, "Dhuhr", schedule[1].Name)
}

func TestLookupMethod(t *testing.T) {
	m, err := LookupMethod("isna")
	require.NoError(t, err)
	assert.Equal(t, "ISNA", m.Name)
	assert.Equal(t, 15.0, m.FajrAngle)

	_, err = LookupMethod("")
	assert.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "MWL")
}

func TestMethods_NoDuplicateNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Methods {
		assert.False(t, seen[m.Name], "duplicate method %s", m.Name)
		seen[m.Name] = true
		assert.NotEmpty(t, m.Description)
		assert.True(t, m.IshaMinutes > 0 || m.IshaAngle > 0, "%s has no Isha rule", m.Name)
	}
}

func TestJulianDate(t *testing.T) {
	assert.Equal(t, 2451544.5, julianDate(2000, 1, 1))
	assert.Equal(t, 2451604.5, julianDate(2000, 3, 1))
}

func TestSunPosition_NewYear2000(t *testing.T) {
	decl, eqt := sunPosition(julianDate(2000, 1, 1))

	assert.InDelta(t, -23.0, degrees(decl), 0.5)
	assert.Less(t, math.Abs(eqt), 0.25)
}

func TestAsrAltitude(t *testing.T) {
	// Sun overhead at noon: the shadow is exactly one object length at 45 degrees.
	assert.InDelta(t, 45.0, asrAltitude(1, 0, 0), 1e-9)
	assert.Less(t, asrAltitude(2, 0, 0), asrAltitude(1, 0, 0))
}

func TestLocationFor(t *testing.T) {
	loc := LocationFor(24.7136, 46.6753)
	assert.Equal(t, "Asia/Riyadh", loc.String())
}
