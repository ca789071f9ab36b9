package enroll

import (
	"errors"
	"testing"
	"time"

	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
	"github.com/campusops/registrar/core/student"
	emailsvc "github.com/campusops/registrar/services/email"
	inmemdb "github.com/campusops/registrar/storage/database/inmem"
	testutil "github.com/campusops/registrar/tests"
)

type serviceFixture struct {
	svc         *Service
	catalogSvc  *catalog.Service
	overrideSvc *override.Service
	catalogRepo catalog.Repository
	studentRepo *inmemdb.StudentRepository
	perms       *inmemdb.PermissionStore
}

func setup(t *testing.T) *serviceFixture {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	conf := testutil.NewConfig()
	catalogRepo := inmemdb.NewCatalogRepository(db)
	studentRepo := inmemdb.NewStudentRepository(db)
	overrideSvc := override.NewService(
		inmemdb.NewOverrideRepository(db), emailsvc.NewConsoleServiceMock(conf), nil, conf)
	perms := inmemdb.NewPermissionStore()

	return &serviceFixture{
		svc:         NewService(catalogRepo, studentRepo, overrideSvc, perms, nil, conf),
		catalogSvc:  catalog.NewService(catalogRepo, nil),
		overrideSvc: overrideSvc,
		catalogRepo: catalogRepo,
		studentRepo: studentRepo,
		perms:       perms,
	}
}

func (f *serviceFixture) seedCatalog(t *testing.T) {
	t.Helper()
	testutil.CreateCourse(t, f.catalogRepo, "CS101", "Intro to Computer Science", 3)
	testutil.CreateCourse(t, f.catalogRepo, "CS201", "Data Structures", 3)
	testutil.CreateCourse(t, f.catalogRepo, "CS301", "Algorithms", 3)
	testutil.CreateCourse(t, f.catalogRepo, "MATH210", "Discrete Mathematics", 3)

	_, err := f.catalogSvc.ActivateRule(catalog.Rule{
		ID:       "rule-cs301",
		CourseID: "CS301",
		Root: catalog.Group{
			ID: "root",
			Op: catalog.OpAnd,
			Children: []catalog.Node{
				testutil.CourseLeaf("req-cs201", "CS201", catalog.GradeCPlus, true),
				testutil.CourseLeaf("req-math210", "MATH210", catalog.GradeC, true),
			},
		},
	})
	if err != nil {
		t.Fatalf("seedCatalog() failed: %v", err)
	}
}

func (f *serviceFixture) seedStudent(t *testing.T, completed ...student.CompletedCourse) student.Profile {
	t.Helper()
	return testutil.SaveProfile(t, f.studentRepo, student.Profile{
		ID:          "stu-1001",
		Name:        "Jordan Reyes",
		Email:       "jreyes@university.test",
		Majors:      []string{"CS"},
		Standing:    catalog.StandingJunior,
		GPA:         3.1,
		CreditHours: 62,
		Completed:   completed,
	})
}

func TestValidateEnrollment(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t,
		testutil.Completed("CS201", catalog.GradeB, "2025FA"),
		testutil.Completed("MATH210", catalog.GradeC, "2025FA"),
	)

	res, err := f.svc.ValidateEnrollment(" stu-1001 ", " cs301 ")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if !res.Valid {
		t.Fatalf("Valid = false: %+v", res.Requirements)
	}
	if res.StudentID != "stu-1001" || res.CourseID != "CS301" {
		t.Errorf("identifiers not normalized: %q, %q", res.StudentID, res.CourseID)
	}
}

func TestValidateEnrollmentIneligible(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t, testutil.Completed("CS201", catalog.GradeB, "2025FA"))

	res, err := f.svc.ValidateEnrollment("stu-1001", "CS301")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true with MATH210 missing")
	}
	if len(res.Missing) != 1 || res.Missing[0].CourseID != "MATH210" {
		t.Errorf("Missing = %v, want MATH210", res.Missing)
	}
	if res.Missing[0].Title != "Discrete Mathematics" {
		t.Errorf("Missing[0].Title = %q", res.Missing[0].Title)
	}
}

func TestValidateEnrollmentNotFound(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t)

	if _, err := f.svc.ValidateEnrollment("ghost", "CS301"); !errors.Is(err, student.ErrNotFound) {
		t.Errorf("ValidateEnrollment() error = %v, want %v", err, student.ErrNotFound)
	}
	if _, err := f.svc.ValidateEnrollment("stu-1001", "NOPE999"); !errors.Is(err, catalog.ErrCourseNotFound) {
		t.Errorf("ValidateEnrollment() error = %v, want %v", err, catalog.ErrCourseNotFound)
	}
}

func TestValidateEnrollmentNoRule(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t)

	res, err := f.svc.ValidateEnrollment("stu-1001", "CS101")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if !res.Valid {
		t.Error("Valid = false for a course without prerequisites")
	}
}

func TestValidateEnrollmentIgnoresInactiveRule(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t)

	// a drafted but never activated rule must not gate enrollment
	if _, err := f.catalogRepo.SaveRule(catalog.Rule{
		ID:       "rule-cs201-draft",
		CourseID: "CS201",
		Active:   false,
		Root:     testutil.CourseLeaf("req-cs101", "CS101", catalog.GradeC, true),
	}); err != nil {
		t.Fatalf("SaveRule() failed: %v", err)
	}

	res, err := f.svc.ValidateEnrollment("stu-1001", "CS201")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if !res.Valid {
		t.Errorf("Valid = false, the draft rule should be ignored: %+v", res.Requirements)
	}
}

func TestValidateEnrollmentWithApprovedWaiver(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t, testutil.Completed("CS201", catalog.GradeB, "2025FA"))

	// fails without the waiver
	res, err := f.svc.ValidateEnrollment("stu-1001", "CS301")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true before the waiver")
	}

	o, err := f.overrideSvc.Request(override.NewOverride{
		StudentID:     "stu-1001",
		CourseID:      "CS301",
		Kind:          override.KindWaiver,
		RequestedBy:   "advisor@university.test",
		Justification: "equivalent transfer credit for discrete math",
		Requirements:  []override.OverriddenRequirement{{RequirementID: "req-math210"}},
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}

	// still pending: no effect
	res, err = f.svc.ValidateEnrollment("stu-1001", "CS301")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true with the waiver still pending")
	}

	if _, err = f.overrideSvc.Approve(o.ID, "dept-chair", "verified", nil); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	res, err = f.svc.ValidateEnrollment("stu-1001", "CS301")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if !res.Valid {
		t.Fatalf("Valid = false with an approved waiver: %+v", res.Requirements)
	}

	var waived bool
	for _, rr := range res.Requirements {
		if rr.RequirementID == "req-math210" && rr.Waived {
			waived = true
		}
	}
	if !waived {
		t.Error("req-math210 not marked waived")
	}
}

func TestValidateEnrollmentExpiredWaiver(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t, testutil.Completed("CS201", catalog.GradeB, "2025FA"))

	o, err := f.overrideSvc.Request(override.NewOverride{
		StudentID:     "stu-1001",
		CourseID:      "CS301",
		Kind:          override.KindWaiver,
		RequestedBy:   "advisor@university.test",
		Justification: "temporary exception",
		Requirements:  []override.OverriddenRequirement{{RequirementID: "req-math210"}},
	})
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	past := time.Now().UTC().Add(-time.Hour)
	if _, err = f.overrideSvc.Approve(o.ID, "dept-chair", "", &past); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	res, err := f.svc.ValidateEnrollment("stu-1001", "CS301")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if res.Valid {
		t.Error("Valid = true with the waiver expired")
	}
}

func TestValidateEnrollmentPermissionRestriction(t *testing.T) {
	f := setup(t)
	f.seedCatalog(t)
	f.seedStudent(t)

	restrictions := []catalog.Restriction{{
		ID:       "restr-1",
		CourseID: "CS101",
		Kind:     catalog.RestrictPermission,
		Values:   []string{"honors_program"},
		Level:    catalog.LevelHard,
	}}
	if err := f.catalogSvc.SaveRestrictions("CS101", restrictions); err != nil {
		t.Fatalf("SaveRestrictions() error = %v", err)
	}

	res, err := f.svc.ValidateEnrollment("stu-1001", "CS101")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if res.Valid {
		t.Fatal("Valid = true without the permission grant")
	}

	f.perms.Grant("stu-1001", "honors_program")
	res, err = f.svc.ValidateEnrollment("stu-1001", "CS101")
	if err != nil {
		t.Fatalf("ValidateEnrollment() error = %v", err)
	}
	if !res.Valid {
		t.Errorf("Valid = false with the permission granted: %+v", res.Restrictions)
	}
}
