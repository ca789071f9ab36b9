package catalog

// Course is a catalog entry. A course exclusively owns its prerequisite rule
// tree; deleting a course deletes its rules, corequisites and restrictions.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	CreditHours int    `json:"credit_hours"`
	Active      bool   `json:"active"`
}

// Operator combines the children of a rule group.
type Operator string

const (
	OpAnd Operator = "AND" // all children must be satisfied
	OpOr  Operator = "OR"  // at least one child must be satisfied
)

func (op Operator) Valid() bool { return op == OpAnd || op == OpOr }

// RequirementKind discriminates Requirement payloads.
type RequirementKind string

const (
	ReqCourse        RequirementKind = "course"
	ReqCreditHours   RequirementKind = "credit_hours"
	ReqClassStanding RequirementKind = "class_standing"
	ReqPermission    RequirementKind = "permission"
	ReqGPA           RequirementKind = "gpa"
)

func (k RequirementKind) Valid() bool {
	switch k {
	case ReqCourse, ReqCreditHours, ReqClassStanding, ReqPermission, ReqGPA:
		return true
	}
	return false
}

// Requirement is a single leaf condition. Only the payload fields matching
// Kind are set; the evaluator dispatches on Kind.
type Requirement struct {
	ID   string          `json:"id" validate:"required"`
	Kind RequirementKind `json:"kind" validate:"required,reqkind"`

	CourseID       string        `json:"course_id,omitempty"`
	MinGrade       Grade         `json:"min_grade,omitempty"`
	MinCreditHours int           `json:"min_credit_hours,omitempty"`
	MinStanding    ClassStanding `json:"min_standing,omitempty"`
	Permission     string        `json:"permission,omitempty"`
	MinGPA         float64       `json:"min_gpa,omitempty"`

	// Required only matters under an AND group; under OR every leaf is an
	// individually optional alternative. It does not imply waivability.
	Required     bool     `json:"required"`
	Waivable     bool     `json:"waivable"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// Node is one node of a prerequisite rule tree: either a Group combining
// children with an Operator, or a Leaf holding a single Requirement.
type Node interface {
	node()
}

type Group struct {
	ID       string   `json:"id"`
	Op       Operator `json:"op"`
	Children []Node   `json:"children"`
}

type Leaf struct {
	Requirement Requirement `json:"requirement"`
}

func (Group) node() {}
func (Leaf) node()  {}

// Rule is a course's prerequisite rule tree.
type Rule struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Active   bool   `json:"active"`
	Root     Node   `json:"root"`
}

// Edges returns the (course, prerequisite course) dependencies the rule tree
// introduces, in authored order.
func (r Rule) Edges() []Edge {
	var edges []Edge
	walkNodes(r.Root, func(req Requirement) {
		if req.Kind == ReqCourse {
			edges = append(edges, Edge{CourseID: r.CourseID, PrerequisiteID: req.CourseID})
		}
	})
	return edges
}

// CourseRefs returns every course id referenced by the rule's leaves, in
// authored order, without duplicates.
func (r Rule) CourseRefs() []string {
	var refs []string
	seen := make(map[string]bool)
	walkNodes(r.Root, func(req Requirement) {
		if req.Kind == ReqCourse && !seen[req.CourseID] {
			seen[req.CourseID] = true
			refs = append(refs, req.CourseID)
		}
	})
	return refs
}

func walkNodes(n Node, fn func(Requirement)) {
	switch n := n.(type) {
	case Group:
		for _, child := range n.Children {
			walkNodes(child, fn)
		}
	case Leaf:
		fn(n.Requirement)
	}
}

// CoreqEnforcement says when the corequisite course must be taken.
type CoreqEnforcement string

const (
	// TakeSimultaneously requires enrollment in the same term.
	TakeSimultaneously CoreqEnforcement = "simultaneous"
	// TakeBeforeOrWith accepts prior completion or same-term enrollment.
	TakeBeforeOrWith CoreqEnforcement = "before_or_with"
)

// CoreqFailureAction says what an unmet corequisite does to enrollment.
type CoreqFailureAction string

const (
	BlockEnrollment        CoreqFailureAction = "block"
	RequireAdvisorApproval CoreqFailureAction = "advisor_approval"
)

// Corequisite links a course to another course that must be taken with it.
type Corequisite struct {
	ID               string             `json:"id"`
	CourseID         string             `json:"course_id"`
	RequiredCourseID string             `json:"required_course_id"`
	Enforcement      CoreqEnforcement   `json:"enforcement"`
	Waivable         bool               `json:"waivable"`
	OnFailure        CoreqFailureAction `json:"on_failure"`
}

// RestrictionKind discriminates enrollment restrictions.
type RestrictionKind string

const (
	RestrictMajor         RestrictionKind = "major"
	RestrictClassStanding RestrictionKind = "class_standing"
	RestrictPermission    RestrictionKind = "permission"
)

// EnforcementLevel grades how strictly a restriction is applied. A Hard
// failure always blocks enrollment; a Soft failure blocks or warns per
// configured policy.
type EnforcementLevel string

const (
	LevelHard EnforcementLevel = "hard"
	LevelSoft EnforcementLevel = "soft"
)

// Restriction gates enrollment independently of prerequisites.
type Restriction struct {
	ID       string           `json:"id"`
	CourseID string           `json:"course_id"`
	Kind     RestrictionKind  `json:"kind"`
	Values   []string         `json:"values"` // majors, standings or permissions, per Kind
	Exclude  bool             `json:"exclude"`
	Level    EnforcementLevel `json:"level"`
}
