package catalog

import (
	"errors"
	"fmt"

	"github.com/campusops/registrar/core"
)

// Grade is a letter grade on the standard plus/minus scale.
type Grade string

const (
	GradeA      Grade = "A"
	GradeAMinus Grade = "A-"
	GradeBPlus  Grade = "B+"
	GradeB      Grade = "B"
	GradeBMinus Grade = "B-"
	GradeCPlus  Grade = "C+"
	GradeC      Grade = "C"
	GradeCMinus Grade = "C-"
	GradeDPlus  Grade = "D+"
	GradeD      Grade = "D"
	GradeDMinus Grade = "D-"
	GradeF      Grade = "F"
)

var ErrInvalidGrade = errors.New("invalid grade")

// gradeRanks orders grades for comparison; A > A- > B+ > ... > F.
var gradeRanks = map[Grade]int{
	GradeA:      12,
	GradeAMinus: 11,
	GradeBPlus:  10,
	GradeB:      9,
	GradeBMinus: 8,
	GradeCPlus:  7,
	GradeC:      6,
	GradeCMinus: 5,
	GradeDPlus:  4,
	GradeD:      3,
	GradeDMinus: 2,
	GradeF:      1,
}

func ParseGrade(s string) (Grade, error) {
	g := Grade(core.CleanCode(s))
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGrade, s)
	}
	return g, nil
}

func (g Grade) Valid() bool {
	_, ok := gradeRanks[g]
	return ok
}

// AtLeast reports whether g meets the `min` grade. An invalid grade never
// meets any minimum.
func (g Grade) AtLeast(min Grade) bool {
	gr, ok := gradeRanks[g]
	if !ok {
		return false
	}
	mr, ok := gradeRanks[min]
	if !ok {
		return false
	}
	return gr >= mr
}

// Passing reports whether g is a passing grade (above F).
func (g Grade) Passing() bool {
	return g.Valid() && g != GradeF
}

// ClassStanding is a student's academic standing, ordered from Freshman up.
type ClassStanding string

const (
	StandingFreshman  ClassStanding = "freshman"
	StandingSophomore ClassStanding = "sophomore"
	StandingJunior    ClassStanding = "junior"
	StandingSenior    ClassStanding = "senior"
	StandingGraduate  ClassStanding = "graduate"
)

var ErrInvalidStanding = errors.New("invalid class standing")

var standingRanks = map[ClassStanding]int{
	StandingFreshman:  1,
	StandingSophomore: 2,
	StandingJunior:    3,
	StandingSenior:    4,
	StandingGraduate:  5,
}

func ParseStanding(s string) (ClassStanding, error) {
	cs := ClassStanding(core.CleanString(s, true /* lower */))
	if !cs.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStanding, s)
	}
	return cs, nil
}

func (cs ClassStanding) Valid() bool {
	_, ok := standingRanks[cs]
	return ok
}

func (cs ClassStanding) AtLeast(min ClassStanding) bool {
	cr, ok := standingRanks[cs]
	if !ok {
		return false
	}
	mr, ok := standingRanks[min]
	if !ok {
		return false
	}
	return cr >= mr
}
