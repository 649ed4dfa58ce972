package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/dto"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
)

func setupTestClassService() (ClassService, *mocks) {
	m := newMocks()
	return NewClassService(m.repo, zap.NewNop()), m
}

func TestClassService_Create_Success(t *testing.T) {
	svc, m := setupTestClassService()
	sy := m.seedSchoolYear("2024-2025", true)
	teacher := m.seedUser("alma", model.RoleTeacher, true)

	resp, err := svc.Create(context.Background(), &dto.ClassForm{
		GradeLevel:   " Grade 7 ",
		Section:      "Rizal",
		TeacherID:    teacher.UserID,
		SchoolYearID: sy.SchoolYearID,
		IsActive:     true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Label != "Grade 7 - Rizal" {
		t.Errorf("expected label %q, got %q", "Grade 7 - Rizal", resp.Label)
	}
	if resp.TeacherID != teacher.UserID {
		t.Errorf("expected adviser %s, got %s", teacher.UserID, resp.TeacherID)
	}
}

func TestClassService_Create_Validation(t *testing.T) {
	svc, m := setupTestClassService()
	sy := m.seedSchoolYear("2024-2025", true)
	operator := m.seedUser("oscar", model.RoleOperator, true)
	m.seedClass("Grade 7", "Rizal", sy.SchoolYearID, nil)

	tests := []struct {
		name string
		form dto.ClassForm
		want []error
	}{
		{
			name: "duplicate section is case-insensitive",
			form: dto.ClassForm{GradeLevel: "grade 7", Section: "RIZAL", SchoolYearID: sy.SchoolYearID},
			want: []error{ErrClassDuplicate},
		},
		{
			name: "adviser must be a teacher",
			form: dto.ClassForm{GradeLevel: "Grade 8", Section: "Bonifacio", SchoolYearID: sy.SchoolYearID, TeacherID: operator.UserID},
			want: []error{ErrAdviserInvalid},
		},
		{
			name: "unknown school year and adviser",
			form: dto.ClassForm{GradeLevel: "Grade 8", Section: "Bonifacio", SchoolYearID: "missing", TeacherID: "missing"},
			want: []error{ErrSchoolYearNotFound, ErrAdviserInvalid},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &tt.form, "admin-1")
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("expected %v, got %v", want, err)
				}
			}
		})
	}
}

func TestClassService_Update_SameClassIsNotDuplicate(t *testing.T) {
	svc, m := setupTestClassService()
	sy := m.seedSchoolYear("2024-2025", true)
	c := m.seedClass("Grade 7", "Rizal", sy.SchoolYearID, nil)

	resp, err := svc.Update(context.Background(), c.ClassID, &dto.ClassForm{
		GradeLevel:   "Grade 7",
		Section:      "Rizal",
		SchoolYearID: sy.SchoolYearID,
		IsActive:     false,
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if resp.IsActive {
		t.Error("class should be inactive after update")
	}
}

func TestClassService_Delete(t *testing.T) {
	svc, m := setupTestClassService()
	sy := m.seedSchoolYear("2024-2025", true)
	full := m.seedClass("Grade 7", "Rizal", sy.SchoolYearID, nil)
	empty := m.seedClass("Grade 7", "Mabini", sy.SchoolYearID, nil)
	m.classes.studentCounts[full.ClassID] = 30

	if err := svc.Delete(context.Background(), full.ClassID, "admin-1"); !errors.Is(err, ErrClassInUse) {
		t.Errorf("expected ErrClassInUse, got %v", err)
	}
	if err := svc.Delete(context.Background(), empty.ClassID, "admin-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), empty.ClassID); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound after delete, got %v", err)
	}
}

func TestClassService_List_StudentCounts(t *testing.T) {
	svc, m := setupTestClassService()
	sy := m.seedSchoolYear("2024-2025", true)
	c := m.seedClass("Grade 7", "Rizal", sy.SchoolYearID, nil)
	m.seedClass("Grade 8", "Luna", sy.SchoolYearID, nil)
	m.classes.studentCounts[c.ClassID] = 12

	page, err := svc.List(context.Background(), &dto.ClassListRequest{Grade: "Grade 7"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Pager.Total != 1 || len(page.Items) != 1 {
		t.Fatalf("expected one Grade 7 class, got %d", page.Pager.Total)
	}
	if page.Items[0].StudentCount != 12 {
		t.Errorf("expected 12 students, got %d", page.Items[0].StudentCount)
	}
}

func TestClassService_Options_ActiveYearOnly(t *testing.T) {
	svc, m := setupTestClassService()
	current := m.seedSchoolYear("2024-2025", true)
	past := m.seedSchoolYear("2023-2024", false)
	m.seedClass("Grade 7", "Rizal", current.SchoolYearID, nil)
	m.seedClass("Grade 7", "Rizal", past.SchoolYearID, nil)

	opts, err := svc.Options(context.Background())
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts) != 1 {
		t.Errorf("expected only the active year's class, got %+v", opts)
	}
}
