package grading

import "testing"

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name  string
		marks map[string]float64
		pct   string
		grade string
	}{
		{"nil marks", nil, "0.00", GradeF},
		{"empty marks", map[string]float64{}, "0.00", GradeF},
		{"two subjects", map[string]float64{"Math": 100, "Sci": 80}, "90.00", GradeAPlus},
		{"average C", map[string]float64{"Math": 80, "Eng": 60}, "70.00", GradeB},
		{"single D", map[string]float64{"Art": 55}, "55.00", GradeD},
		{"thirds", map[string]float64{"A": 100, "B": 100, "C": 99}, "99.67", GradeAPlus},
		{"rounds half up", map[string]float64{"X": 70.005}, "70.01", GradeB},
		{"all zero", map[string]float64{"X": 0, "Y": 0}, "0.00", GradeF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.marks)
			if got.PercentageText() != tt.pct {
				t.Fatalf("percentage = %s, want %s", got.PercentageText(), tt.pct)
			}
			if got.Grade != tt.grade {
				t.Fatalf("grade = %s, want %s", got.Grade, tt.grade)
			}
		})
	}
}

func TestGradeForBoundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, GradeAPlus},
		{90.00, GradeAPlus},
		{89.99, GradeA},
		{80, GradeA},
		{79.99, GradeB},
		{70, GradeB},
		{69.99, GradeC},
		{60, GradeC},
		{59.99, GradeD},
		{50, GradeD},
		{49.99, GradeF},
		{0, GradeF},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.pct); got != tt.want {
			t.Errorf("GradeFor(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestComputeStatsDeterministic(t *testing.T) {
	marks := map[string]float64{"Math": 33.3, "Eng": 66.7, "Bio": 12.1, "Chem": 91.9, "Phys": 0.1}
	first := ComputeStats(marks)
	for i := 0; i < 50; i++ {
		if got := ComputeStats(marks); got != first {
			t.Fatalf("run %d: got %+v, want %+v", i, got, first)
		}
	}
	if first.PercentageText() != "40.82" {
		t.Fatalf("percentage = %s, want 40.82", first.PercentageText())
	}
}

func TestRoundPercentage(t *testing.T) {
	tests := map[float64]string{
		1.005:    "1.01",
		2.675:    "2.68",
		89.994:   "89.99",
		89.995:   "90.00",
		66.66666: "66.67",
	}
	for in, want := range tests {
		if got := FormatPercentage(RoundPercentage(in)); got != want {
			t.Errorf("RoundPercentage(%v) = %s, want %s", in, got, want)
		}
	}
}
