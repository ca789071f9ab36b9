package catalog

import (
	"errors"
	"testing"
)

func TestParseGrade(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Grade
		wantErr error
	}{
		{name: "plain", in: "B", want: GradeB},
		{name: "minus", in: "a-", want: GradeAMinus},
		{name: "whitespace", in: "  c+ ", want: GradeCPlus},
		{name: "empty", in: "", wantErr: ErrInvalidGrade},
		{name: "gibberish", in: "A++", wantErr: ErrInvalidGrade},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGrade(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseGrade() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGrade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradeAtLeast(t *testing.T) {
	tests := []struct {
		name string
		g    Grade
		min  Grade
		want bool
	}{
		{name: "above", g: GradeA, min: GradeC, want: true},
		{name: "exact boundary", g: GradeC, min: GradeC, want: true},
		{name: "plus beats plain", g: GradeCPlus, min: GradeC, want: true},
		{name: "minus misses plain", g: GradeCMinus, min: GradeC, want: false},
		{name: "below", g: GradeD, min: GradeB, want: false},
		{name: "invalid grade never passes", g: "X", min: GradeF, want: false},
		{name: "invalid minimum never met", g: GradeA, min: "X", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.g.AtLeast(tt.min); got != tt.want {
				t.Errorf("AtLeast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGradePassing(t *testing.T) {
	if GradeF.Passing() {
		t.Error("Passing() = true for F")
	}
	if !GradeDMinus.Passing() {
		t.Error("Passing() = false for D-")
	}
	if Grade("?").Passing() {
		t.Error("Passing() = true for invalid grade")
	}
}

func TestParseStanding(t *testing.T) {
	got, err := ParseStanding(" Junior ")
	if err != nil {
		t.Fatalf("ParseStanding() error = %v", err)
	}
	if got != StandingJunior {
		t.Errorf("ParseStanding() = %v, want %v", got, StandingJunior)
	}
	if _, err = ParseStanding("middle school"); !errors.Is(err, ErrInvalidStanding) {
		t.Errorf("ParseStanding() error = %v, want %v", err, ErrInvalidStanding)
	}
}

func TestStandingAtLeast(t *testing.T) {
	tests := []struct {
		name string
		cs   ClassStanding
		min  ClassStanding
		want bool
	}{
		{name: "above", cs: StandingSenior, min: StandingSophomore, want: true},
		{name: "exact", cs: StandingJunior, min: StandingJunior, want: true},
		{name: "below", cs: StandingFreshman, min: StandingJunior, want: false},
		{name: "graduate tops all", cs: StandingGraduate, min: StandingSenior, want: true},
		{name: "invalid standing", cs: "alumnus", min: StandingFreshman, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cs.AtLeast(tt.min); got != tt.want {
				t.Errorf("AtLeast() = %v, want %v", got, tt.want)
			}
		})
	}
}
