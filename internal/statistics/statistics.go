// Package statistics aggregates the outcomes of simulated matches for one
// seat.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// MatchResult is the outcome of a single match seen from one seat
type MatchResult struct {
	Mass  int  // Live weight held when the match ended
	Won   bool // Sole or heaviest survivor
	Ticks int  // Ticks the match lasted
}

// Statistics tracks running totals over many matches
type Statistics struct {
	Matches   int
	Wins      int
	Survivals int
	SumMass   float64
	SumMass2  float64   // Sum of squares for variance calculation
	Ticks     []float64 // Match lengths for median/percentile calculation
}

// Add incorporates a new match result into the statistics
func (s *Statistics) Add(r MatchResult) {
	mass := float64(r.Mass)
	s.Matches++
	s.SumMass += mass
	s.SumMass2 += mass * mass
	s.Ticks = append(s.Ticks, float64(r.Ticks))
	if r.Won {
		s.Wins++
	}
	if r.Mass > 0 {
		s.Survivals++
	}
}

// WinRate returns the fraction of matches won
func (s *Statistics) WinRate() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Matches)
}

// Mean returns the mean final mass
func (s *Statistics) Mean() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.SumMass / float64(s.Matches)
}

// Variance returns the sample variance of the final mass
func (s *Statistics) Variance() float64 {
	if s.Matches < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumMass2 - float64(s.Matches)*mean*mean) / float64(s.Matches-1)
}

// StdDev returns the sample standard deviation of the final mass
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Matches == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Matches))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// MedianTicks returns the median match length
func (s *Statistics) MedianTicks() float64 {
	return s.TicksPercentile(0.5)
}

// TicksPercentile returns the match length at the given percentile (0.0 to 1.0)
func (s *Statistics) TicksPercentile(p float64) float64 {
	if len(s.Ticks) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Ticks))
	copy(sorted, s.Ticks)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Validate checks that the running totals agree with each other
func (s *Statistics) Validate() error {
	if s.Matches <= 0 {
		return fmt.Errorf("invalid match count: %d", s.Matches)
	}
	if len(s.Ticks) != s.Matches {
		return fmt.Errorf("ticks length (%d) does not match match count (%d)", len(s.Ticks), s.Matches)
	}
	if s.Wins > s.Survivals {
		return fmt.Errorf("wins (%d) exceed survivals (%d)", s.Wins, s.Survivals)
	}
	if s.SumMass < 0 {
		return fmt.Errorf("negative total mass %.0f", s.SumMass)
	}
	return nil
}
