// Package grading turns a subject→score mapping into a percentage and a letter grade.
package grading

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

const (
	GradeAPlus = "A+"
	GradeA     = "A"
	GradeB     = "B"
	GradeC     = "C"
	GradeD     = "D"
	GradeF     = "F"
)

// Threshold ladder, highest first. Lower bounds are inclusive.
var gradeLadder = []struct {
	Min   float64
	Grade string
}{
	{90, GradeAPlus},
	{80, GradeA},
	{70, GradeB},
	{60, GradeC},
	{50, GradeD},
}

type Stats struct {
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade"`
}

// PercentageText returns the percentage with two decimals, e.g. "70.00".
func (s Stats) PercentageText() string {
	return FormatPercentage(s.Percentage)
}

// ComputeStats averages the scores and grades the rounded result.
// Empty or nil marks yield 0.00 / F. Scores are expected to be validated already.
func ComputeStats(marks map[string]float64) Stats {
	if len(marks) == 0 {
		return Stats{Percentage: 0, Grade: GradeF}
	}
	pct := RoundPercentage(Total(marks) / float64(len(marks)))
	return Stats{Percentage: pct, Grade: GradeFor(pct)}
}

func GradeFor(percentage float64) string {
	for _, step := range gradeLadder {
		if percentage >= step.Min {
			return step.Grade
		}
	}
	return GradeF
}

// RoundPercentage rounds half-up to 2 decimals.
// v*100 is first snapped to 9 decimals so 70.005 (stored as 70.00499..) still rounds up.
func RoundPercentage(v float64) float64 {
	scaled, err := strconv.ParseFloat(strconv.FormatFloat(v*100, 'f', 9, 64), 64)
	if err != nil {
		scaled = v * 100
	}
	return math.Floor(scaled+0.5) / 100
}

func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Total sums the scores in subject order so repeated calls add up identically.
func Total(marks map[string]float64) float64 {
	keys := make([]string, 0, len(marks))
	for k := range marks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sum float64
	for _, k := range keys {
		sum += marks[k]
	}
	return sum
}
