package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/prayer-board/internal/api"
	"github.com/smokyabdulrahman/prayer-board/internal/calc"
	"github.com/smokyabdulrahman/prayer-board/internal/config"
	"github.com/smokyabdulrahman/prayer-board/internal/prayer"
)

// place is a resolved location and the timezone its board runs in.
type place struct {
	Lat, Lng float64
	Label    string
	Location *time.Location
}

// resolvePlace determines the effective location.
// Priority: CLI flags > config > IP auto-detect.
func resolvePlace(ctx context.Context, cfg *config.Config) (place, error) {
	var (
		p        place
		detectTZ string
	)
	switch {
	case cfg.HasCoordinates():
		p = place{
			Lat:   *cfg.Latitude,
			Lng:   *cfg.Longitude,
			Label: fmt.Sprintf("%.4f, %.4f", *cfg.Latitude, *cfg.Longitude),
		}
	case cfg.Latitude != nil || cfg.Longitude != nil:
		return place{}, errors.WithHint(errors.New("latitude and longitude must be set together"),
			"pass both --lat and --lng, or neither to auto-detect")
	default:
		detected, err := detectLocation(ctx)
		if err != nil {
			return place{}, errors.WithHint(
				errors.Wrap(err, "no location specified and auto-detection failed"),
				"pass --lat and --lng, or run 'prayer-board config set latitude <value>'")
		}
		log.Debug().Str("location", detected.Label()).Msg("detected location from IP")
		p = place{Lat: detected.Latitude, Lng: detected.Longitude, Label: detected.Label()}
		detectTZ = detected.Timezone
	}

	loc, err := cfg.Location()
	if err != nil {
		return place{}, err
	}
	if loc == nil && detectTZ != "" {
		if l, err := time.LoadLocation(detectTZ); err == nil {
			loc = l
		}
	}
	if loc == nil {
		loc = calc.LocationFor(p.Lat, p.Lng)
	}
	p.Location = loc
	return p, nil
}

// scheduleSource produces the prayer schedule for a calendar day.
type scheduleSource interface {
	Schedule(ctx context.Context, day time.Time) ([]prayer.Prayer, error)
}

func newSource(cfg *config.Config, p place) scheduleSource {
	if cfg.Source == config.SourceLocal {
		return &localSource{cfg: cfg, place: p}
	}
	client := api.NewClient(cfg.APIURL)
	client.Method = cfg.Method
	client.School = cfg.School
	return &apiSource{client: client, place: p}
}

// apiSource fetches schedules from a prayer-board server.
type apiSource struct {
	client *api.Client
	place  place
}

func (s *apiSource) Schedule(ctx context.Context, day time.Time) ([]prayer.Prayer, error) {
	schedule, err := s.client.FetchScheduleOn(ctx, s.place.Lat, s.place.Lng, day)
	if err != nil {
		return nil, err
	}
	for i := range schedule {
		schedule[i].Time = schedule[i].Time.In(s.place.Location)
	}
	return schedule, nil
}

// localSource computes schedules in-process.
type localSource struct {
	cfg   *config.Config
	place place
}

func (s *localSource) Schedule(_ context.Context, day time.Time) ([]prayer.Prayer, error) {
	results, err := calc.Compute(calc.Params{
		Latitude:  s.place.Lat,
		Longitude: s.place.Lng,
		Date:      day.In(s.place.Location),
		Method:    s.cfg.Method,
		School:    s.cfg.School,
		Location:  s.place.Location,
	})
	if err != nil {
		return nil, err
	}
	return calc.Schedule(results), nil
}
