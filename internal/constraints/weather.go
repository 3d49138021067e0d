package constraints

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/saan-system/services/optimization/internal/geo"
)

// Condition is a weather reading at one point.
type Condition string

const (
	ConditionSunny      Condition = "sunny"
	ConditionCloudy     Condition = "cloudy"
	ConditionLightRain  Condition = "light_rain"
	ConditionHeavyRain  Condition = "heavy_rain"
	ConditionStorm      Condition = "storm"
	ConditionLightSnow  Condition = "light_snow"
	ConditionHeavySnow  Condition = "heavy_snow"
	ConditionIce        Condition = "ice"
)

var dangerousConditions = map[Condition]bool{
	ConditionStorm:     true,
	ConditionHeavySnow: true,
	ConditionIce:       true,
}

// slowdownFactors maps a condition to its travel-time multiplier (1.0 =
// normal).
var slowdownFactors = map[Condition]float64{
	ConditionSunny:     1.0,
	ConditionCloudy:    1.0,
	ConditionLightRain: 1.2,
	ConditionHeavyRain: 1.4,
	ConditionStorm:     2.0,
	ConditionLightSnow: 1.3,
	ConditionHeavySnow: 1.8,
	ConditionIce:       2.5,
}

// WeatherSlowdownFactor returns the travel-time multiplier for a
// condition, defaulting to 1.0 (normal) for unrecognized values.
func WeatherSlowdownFactor(c Condition) float64 {
	if f, ok := slowdownFactors[c]; ok {
		return f
	}
	return 1.0
}

// WeatherSource supplies the current weather condition at a point. In
// production this would call a weather API; for now only the
// interface is exercised, backed by a randomized stub.
type WeatherSource interface {
	ConditionAt(p geo.Point) Condition
}

// AlwaysClearSource is a deterministic WeatherSource for tests and for
// deployments with no weather integration: every point is sunny.
type AlwaysClearSource struct{}

func (AlwaysClearSource) ConditionAt(geo.Point) Condition { return ConditionSunny }

// RandomSource is a seeded-random WeatherSource matching the source's
// stub: 80% chance of an acceptable condition, 20% chance of a
// dangerous one, for exercising the validator's hard-filter path in
// tests without an external weather API.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource builds a RandomSource seeded for reproducible runs.
func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

var acceptableConditions = []Condition{ConditionSunny, ConditionCloudy, ConditionLightRain}
var dangerousConditionList = []Condition{ConditionStorm, ConditionHeavySnow, ConditionIce}

func (s *RandomSource) ConditionAt(geo.Point) Condition {
	if s.rng.Float64() < 0.8 {
		return acceptableConditions[s.rng.Intn(len(acceptableConditions))]
	}
	return dangerousConditionList[s.rng.Intn(len(dangerousConditionList))]
}

// WeatherValidator enforces weather as a hard filter on a point list
// (see DESIGN.md Open Question decisions): admissible iff no point
// reports a dangerous condition.
type WeatherValidator struct {
	Source WeatherSource
}

// NewWeatherValidator builds a WeatherValidator over source.
func NewWeatherValidator(source WeatherSource) WeatherValidator {
	return WeatherValidator{Source: source}
}

// Admissible reports whether none of points carries a dangerous
// condition.
func (v WeatherValidator) Admissible(points []geo.Point) (bool, string) {
	if len(points) == 0 {
		return true, ""
	}

	var flagged []string
	for idx, p := range points {
		c := v.Source.ConditionAt(p)
		if dangerousConditions[c] {
			flagged = append(flagged, fmt.Sprintf("point %d: %s", idx, c))
		}
	}

	if len(flagged) > 0 {
		return false, "dangerous weather conditions detected: " + strings.Join(flagged, "; ")
	}
	return true, "favorable weather conditions"
}
