// Package rating implements the point economy shared by all office games:
// an Elo-style calculator for how many points a match moves, and the
// integer-exact helpers used to spread those points across team members.
// The package is pure; persistence and transactions live in the services.
package rating

import "math"

// Config carries the tunable constants of the point economy. It is passed
// explicitly to keep the engine testable in isolation; nothing in this
// package reads globals.
type Config struct {
	// StartingPoints is the rating seeded for a player's first match in a game.
	StartingPoints int
	// BaseMatchPoints is the transfer magnitude when the outcome exactly
	// matches expectation (equal ratings) or the match is tied.
	BaseMatchPoints int
	// CurveBase and CurveScale shape the logistic expectation curve: a side
	// rated CurveScale points above its opponent is expected to win
	// CurveBase times as often.
	CurveBase  float64
	CurveScale float64
}

func DefaultConfig() Config {
	return Config{
		StartingPoints:  100,
		BaseMatchPoints: 25,
		CurveBase:       10,
		CurveScale:      100,
	}
}

// MatchPoints returns the magnitude of points that move between the two
// sides of a completed match. ratingA and ratingB are the sides' aggregate
// ratings, scoreDiff is scoreA-scoreB. The sign of scoreDiff selects the
// actual outcome; the caller decides the transfer direction separately from
// the raw scores.
//
// The result is total over all integer inputs (zero, negative, extreme) and
// always positive: ties are worth exactly BaseMatchPoints, an expected win
// never drops below 1, an upset never exceeds 2*BaseMatchPoints.
// Swapping the sides and negating scoreDiff yields the same magnitude.
func (c Config) MatchPoints(ratingA, ratingB, scoreDiff int) int {
	if scoreDiff == 0 {
		return c.BaseMatchPoints
	}

	// Logistic expectation that side A wins. math.Pow saturates to +Inf or 0
	// for extreme gaps, which collapses expected to 1 or 0 and keeps the
	// function defined everywhere.
	gap := float64(ratingB) - float64(ratingA)
	expected := 1 / (1 + math.Pow(c.CurveBase, gap/c.CurveScale))

	actual := 0.0
	if scoreDiff > 0 {
		actual = 1.0
	}

	points := int(math.Round(2 * float64(c.BaseMatchPoints) * math.Abs(actual-expected)))
	if points < 1 {
		return 1
	}
	return points
}

// TeamAverage aggregates a side's member ratings as the ceiling of their
// mean. The rounding direction is part of the game balance: a fractional
// average always counts against the side, so do not switch to truncation.
func TeamAverage(points []int) int {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p
	}
	return ceilDiv(sum, len(points))
}

// ceilDiv rounds the quotient toward +Inf for any sign of sum.
func ceilDiv(sum, n int) int {
	q := sum / n
	if sum%n != 0 && sum > 0 {
		q++
	}
	return q
}

// Clamp bounds n to [min, max]. The match hot path applies no floor or
// ceiling; this exists for bulk imports and seasonal resets.
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
