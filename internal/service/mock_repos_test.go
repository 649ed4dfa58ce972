package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/model"
	"github.com/BelowZeroPortfolio/school-scan-sub001/internal/repository"
)

// mocks groups the in-memory repositories behind one *repository.Repository.
// The Repository has no database, so Transaction runs without one.
type mocks struct {
	repo       *repository.Repository
	users      *mockUserRepo
	years      *mockSchoolYearRepo
	holidays   *mockHolidayRepo
	classes    *mockClassRepo
	students   *mockStudentRepo
	attendance *mockAttendanceRepo
	logs       *mockLogRepo
	authEvents *mockAuthEventRepo
	settings   *mockSettingRepo
}

func newMocks() *mocks {
	m := &mocks{
		users:      newMockUserRepo(),
		years:      newMockSchoolYearRepo(),
		holidays:   newMockHolidayRepo(),
		settings:   &mockSettingRepo{},
		logs:       &mockLogRepo{},
		authEvents: &mockAuthEventRepo{},
	}
	m.classes = newMockClassRepo(m.users)
	m.students = newMockStudentRepo(m.classes)
	m.attendance = newMockAttendanceRepo(m.students, m.users)
	m.repo = &repository.Repository{
		User:       m.users,
		SchoolYear: m.years,
		Holiday:    m.holidays,
		Class:      m.classes,
		Student:    m.students,
		Attendance: m.attendance,
		Log:        m.logs,
		AuthEvent:  m.authEvents,
		Setting:    m.settings,
	}
	return m
}

func mockPage[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		return items
	}
	return pageSlice(items, offset, limit)
}

func containsFold(term string, values ...string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

func dayKey(t time.Time) string { return t.Format(dateLayout) }

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + strings.ToLower(user.Username)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, f repository.UserFilter) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if !matchesPlan(u, f.Plan, f.PlanAt) {
			continue
		}
		if !containsFold(f.Search, u.Username, u.FullName, u.Email) {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return mockPage(result, f.Offset, f.Limit), int64(len(result)), nil
}

func (m *mockUserRepo) CountByRole(_ context.Context, role string, activeOnly bool) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role && (!activeOnly || u.IsActive) {
			n++
		}
	}
	return n, nil
}

func (m *mockUserRepo) UsernameExists(_ context.Context, username, excludeID string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) && u.UserID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock SchoolYearRepository ──

type mockSchoolYearRepo struct {
	years       map[string]*model.SchoolYear
	classCounts map[string]int64
}

func newMockSchoolYearRepo() *mockSchoolYearRepo {
	return &mockSchoolYearRepo{
		years:       make(map[string]*model.SchoolYear),
		classCounts: make(map[string]int64),
	}
}

func (m *mockSchoolYearRepo) Create(_ context.Context, sy *model.SchoolYear) error {
	if sy.SchoolYearID == "" {
		sy.SchoolYearID = "sy-" + sy.Name
	}
	m.years[sy.SchoolYearID] = sy
	return nil
}

func (m *mockSchoolYearRepo) GetByID(_ context.Context, id string) (*model.SchoolYear, error) {
	if sy, ok := m.years[id]; ok {
		cp := *sy
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolYearRepo) GetActive(_ context.Context) (*model.SchoolYear, error) {
	for _, sy := range m.years {
		if sy.IsActive {
			cp := *sy
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolYearRepo) List(_ context.Context) ([]model.SchoolYear, error) {
	var result []model.SchoolYear
	for _, sy := range m.years {
		result = append(result, *sy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name > result[j].Name })
	return result, nil
}

func (m *mockSchoolYearRepo) Update(_ context.Context, sy *model.SchoolYear) error {
	cp := *sy
	m.years[sy.SchoolYearID] = &cp
	return nil
}

func (m *mockSchoolYearRepo) Delete(_ context.Context, id string) error {
	delete(m.years, id)
	return nil
}

func (m *mockSchoolYearRepo) NameExists(_ context.Context, name, excludeID string) (bool, error) {
	for _, sy := range m.years {
		if sy.Name == name && sy.SchoolYearID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSchoolYearRepo) ClearActive(_ context.Context) error {
	for _, sy := range m.years {
		sy.IsActive = false
	}
	return nil
}

func (m *mockSchoolYearRepo) CountClasses(_ context.Context, id string) (int64, error) {
	return m.classCounts[id], nil
}

// ── Mock HolidayRepository ──

type mockHolidayRepo struct {
	holidays []model.Holiday
}

func newMockHolidayRepo() *mockHolidayRepo {
	return &mockHolidayRepo{}
}

func (m *mockHolidayRepo) CreateBatch(_ context.Context, holidays []model.Holiday) (int64, error) {
	var n int64
	for _, h := range holidays {
		dup := false
		for _, existing := range m.holidays {
			if existing.SchoolYearID == h.SchoolYearID && dayKey(existing.Date) == dayKey(h.Date) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		h.HolidayID = fmt.Sprintf("hol-%d", len(m.holidays)+1)
		m.holidays = append(m.holidays, h)
		n++
	}
	return n, nil
}

func (m *mockHolidayRepo) ListBySchoolYear(_ context.Context, schoolYearID string) ([]model.Holiday, error) {
	var result []model.Holiday
	for _, h := range m.holidays {
		if h.SchoolYearID == schoolYearID {
			result = append(result, h)
		}
	}
	return result, nil
}

func (m *mockHolidayRepo) CountBySchoolYear(ctx context.Context, schoolYearID string) (int64, error) {
	list, _ := m.ListBySchoolYear(ctx, schoolYearID)
	return int64(len(list)), nil
}

func (m *mockHolidayRepo) GetByDate(_ context.Context, date time.Time) (*model.Holiday, error) {
	for _, h := range m.holidays {
		if dayKey(h.Date) == dayKey(date) {
			cp := h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHolidayRepo) DeleteBySchoolYear(_ context.Context, schoolYearID string) error {
	kept := m.holidays[:0]
	for _, h := range m.holidays {
		if h.SchoolYearID != schoolYearID {
			kept = append(kept, h)
		}
	}
	m.holidays = kept
	return nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes       map[string]*model.Class
	users         *mockUserRepo
	studentCounts map[string]int64
}

func newMockClassRepo(users *mockUserRepo) *mockClassRepo {
	return &mockClassRepo{
		classes:       make(map[string]*model.Class),
		users:         users,
		studentCounts: make(map[string]int64),
	}
}

func (m *mockClassRepo) withTeacher(c model.Class) *model.Class {
	if c.TeacherID != nil {
		if u, ok := m.users.users[*c.TeacherID]; ok {
			c.Teacher = u
		}
	}
	return &c
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if class.ClassID == "" {
		class.ClassID = fmt.Sprintf("class-%s-%s-%s", class.SchoolYearID, class.GradeLevel, class.Section)
	}
	m.classes[class.ClassID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return m.withTeacher(*c), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	cp := *class
	m.classes[class.ClassID] = &cp
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) List(_ context.Context, f repository.ClassFilter) ([]model.Class, int64, error) {
	teachers := make(map[string]bool, len(f.TeacherIDs))
	for _, id := range f.TeacherIDs {
		teachers[id] = true
	}

	var result []model.Class
	for _, c := range m.classes {
		if f.Grade != "" && c.GradeLevel != f.Grade {
			continue
		}
		if f.SchoolYearID != "" && c.SchoolYearID != f.SchoolYearID {
			continue
		}
		if len(teachers) > 0 && (c.TeacherID == nil || !teachers[*c.TeacherID]) {
			continue
		}
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		if !containsFold(f.Search, c.GradeLevel, c.Section) {
			continue
		}
		result = append(result, *m.withTeacher(*c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Label() < result[j].Label() })
	return mockPage(result, f.Offset, f.Limit), int64(len(result)), nil
}

func (m *mockClassRepo) Exists(ctx context.Context, grade, section, schoolYearID, excludeID string) (bool, error) {
	c, err := m.FindByGradeSection(ctx, grade, section, schoolYearID)
	if err != nil {
		return false, nil
	}
	return c.ClassID != excludeID, nil
}

func (m *mockClassRepo) FindByGradeSection(_ context.Context, grade, section, schoolYearID string) (*model.Class, error) {
	for _, c := range m.classes {
		if strings.EqualFold(c.GradeLevel, grade) && strings.EqualFold(c.Section, section) && c.SchoolYearID == schoolYearID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) GradeLevels(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var grades []string
	for _, c := range m.classes {
		if !seen[c.GradeLevel] {
			seen[c.GradeLevel] = true
			grades = append(grades, c.GradeLevel)
		}
	}
	sort.Strings(grades)
	return grades, nil
}

func (m *mockClassRepo) CountStudents(_ context.Context, classID string) (int64, error) {
	return m.studentCounts[classID], nil
}

func (m *mockClassRepo) StudentCounts(_ context.Context, classIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(classIDs))
	for _, id := range classIDs {
		if n, ok := m.studentCounts[id]; ok {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *mockClassRepo) Count(_ context.Context, schoolYearID string) (int64, error) {
	var n int64
	for _, c := range m.classes {
		if c.IsActive && (schoolYearID == "" || c.SchoolYearID == schoolYearID) {
			n++
		}
	}
	return n, nil
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students map[string]*model.Student
	classes  *mockClassRepo
}

func newMockStudentRepo(classes *mockClassRepo) *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student), classes: classes}
}

func (m *mockStudentRepo) withClass(st model.Student) *model.Student {
	st.Class = nil
	if st.ClassID != nil {
		if c, ok := m.classes.classes[*st.ClassID]; ok {
			st.Class = c
		}
	}
	return &st
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == "" {
		student.ID = "stu-" + student.StudentID
	}
	cp := *student
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	if st, ok := m.students[id]; ok {
		return m.withClass(*st), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByCode(_ context.Context, code string) (*model.Student, error) {
	for _, st := range m.students {
		if st.StudentID == code || (st.LRN != nil && *st.LRN == code) {
			return m.withClass(*st), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByStudentID(_ context.Context, studentID string) (*model.Student, error) {
	for _, st := range m.students {
		if st.StudentID == studentID {
			cp := *st
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	cp := *student
	cp.Class = nil
	m.students[student.ID] = &cp
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, f repository.StudentFilter) ([]model.Student, int64, error) {
	var result []model.Student
	for _, st := range m.students {
		if f.ClassID != "" && deref(st.ClassID) != f.ClassID {
			continue
		}
		if f.Grade != "" {
			c := m.withClass(*st).Class
			if c == nil || c.GradeLevel != f.Grade {
				continue
			}
		}
		if f.Active != nil && st.IsActive != *f.Active {
			continue
		}
		if !containsFold(f.Search, st.StudentID, deref(st.LRN), st.FirstName, st.LastName) {
			continue
		}
		result = append(result, *m.withClass(*st))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LastName < result[j].LastName })
	return mockPage(result, f.Offset, f.Limit), int64(len(result)), nil
}

func (m *mockStudentRepo) StudentIDExists(_ context.Context, studentID, excludeID string) (bool, error) {
	for _, st := range m.students {
		if st.StudentID == studentID && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) LRNExists(_ context.Context, lrn, excludeID string) (bool, error) {
	for _, st := range m.students {
		if st.LRN != nil && *st.LRN == lrn && st.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Count(_ context.Context, active *bool) (int64, error) {
	var n int64
	for _, st := range m.students {
		if active == nil || st.IsActive == *active {
			n++
		}
	}
	return n, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	rows     []*model.Attendance
	students *mockStudentRepo
	users    *mockUserRepo
}

func newMockAttendanceRepo(students *mockStudentRepo, users *mockUserRepo) *mockAttendanceRepo {
	return &mockAttendanceRepo{students: students, users: users}
}

func (m *mockAttendanceRepo) preload(a *model.Attendance) *model.Attendance {
	cp := *a
	if st, ok := m.students.students[cp.StudentID]; ok {
		cp.Student = m.students.withClass(*st)
	}
	if cp.RecordedBy != nil {
		if u, ok := m.users.users[*cp.RecordedBy]; ok {
			cp.Recorder = u
		}
	}
	return &cp
}

func (m *mockAttendanceRepo) CreateIfAbsent(_ context.Context, a *model.Attendance) (bool, error) {
	for _, row := range m.rows {
		if row.StudentID == a.StudentID && dayKey(row.Date) == dayKey(a.Date) {
			return false, nil
		}
	}
	a.AttendanceID = fmt.Sprintf("att-%d", len(m.rows)+1)
	cp := *a
	m.rows = append(m.rows, &cp)
	return true, nil
}

func (m *mockAttendanceRepo) GetByID(_ context.Context, id string) (*model.Attendance, error) {
	for _, row := range m.rows {
		if row.AttendanceID == id {
			return m.preload(row), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) GetByStudentDate(_ context.Context, studentID string, date time.Time) (*model.Attendance, error) {
	for _, row := range m.rows {
		if row.StudentID == studentID && dayKey(row.Date) == dayKey(date) {
			return m.preload(row), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	for i, row := range m.rows {
		if row.AttendanceID == a.AttendanceID {
			cp := *a
			m.rows[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) List(_ context.Context, f repository.AttendanceFilter) ([]model.Attendance, int64, error) {
	var result []model.Attendance
	for _, row := range m.rows {
		d := dayKey(row.Date)
		if f.DateFrom != nil && d < dayKey(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && d > dayKey(*f.DateTo) {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		full := m.preload(row)
		if f.ClassID != "" && (full.Student == nil || deref(full.Student.ClassID) != f.ClassID) {
			continue
		}
		if f.Student != "" && (full.Student == nil ||
			!containsFold(f.Student, full.Student.StudentID, full.Student.FirstName, full.Student.LastName)) {
			continue
		}
		result = append(result, *full)
	}
	return mockPage(result, f.Offset, f.Limit), int64(len(result)), nil
}

func (m *mockAttendanceRepo) FirstScansByRecorders(_ context.Context, recorderIDs []string, date time.Time) (map[string]time.Time, error) {
	wanted := make(map[string]bool, len(recorderIDs))
	for _, id := range recorderIDs {
		wanted[id] = true
	}
	result := make(map[string]time.Time)
	for _, row := range m.rows {
		if row.RecordedBy == nil || row.CheckInTime == nil || !wanted[*row.RecordedBy] || dayKey(row.Date) != dayKey(date) {
			continue
		}
		if first, ok := result[*row.RecordedBy]; !ok || row.CheckInTime.Before(first) {
			result[*row.RecordedBy] = *row.CheckInTime
		}
	}
	return result, nil
}

func (m *mockAttendanceRepo) CountByStatus(_ context.Context, date time.Time) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, row := range m.rows {
		if dayKey(row.Date) == dayKey(date) {
			counts[row.Status]++
		}
	}
	return counts, nil
}

// ── Mock LogRepository ──

type mockLogRepo struct {
	logs []model.Log
}

func (m *mockLogRepo) Create(_ context.Context, log *model.Log) error {
	log.LogID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockLogRepo) List(_ context.Context, f repository.LogFilter) ([]model.Log, int64, error) {
	var result []model.Log
	for _, l := range m.logs {
		if f.Level != "" && l.Level != f.Level {
			continue
		}
		if f.From != nil && l.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !l.CreatedAt.Before(*f.To) {
			continue
		}
		if !containsFold(f.Search, l.Message) {
			continue
		}
		result = append(result, l)
	}
	return mockPage(result, f.Offset, f.Limit), int64(len(result)), nil
}

func (m *mockLogRepo) PurgeBefore(_ context.Context, before time.Time) (int64, error) {
	kept := m.logs[:0]
	var n int64
	for _, l := range m.logs {
		if l.CreatedAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	m.logs = kept
	return n, nil
}

// ── Mock AuthEventRepository ──

type mockAuthEventRepo struct {
	events []model.AuthEvent
}

func (m *mockAuthEventRepo) Create(_ context.Context, event *model.AuthEvent) error {
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAuthEventRepo) DayBounds(_ context.Context, userIDs []string, from, to time.Time) (map[string]repository.DayAuth, error) {
	wanted := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	result := make(map[string]repository.DayAuth)
	for _, ev := range m.events {
		if !wanted[ev.UserID] || ev.OccurredAt.Before(from) || !ev.OccurredAt.Before(to) {
			continue
		}
		at := ev.OccurredAt
		b := result[ev.UserID]
		switch ev.Event {
		case model.AuthEventLogin:
			if b.Login == nil || at.Before(*b.Login) {
				b.Login = &at
			}
		case model.AuthEventLogout:
			if b.Logout == nil || at.After(*b.Logout) {
				b.Logout = &at
			}
		}
		result[ev.UserID] = b
	}
	return result, nil
}

// ── Mock SystemSettingRepository ──

type mockSettingRepo struct {
	setting *model.SystemSetting
}

func (m *mockSettingRepo) Get(_ context.Context) (*model.SystemSetting, error) {
	if m.setting == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m.setting
	return &cp, nil
}

func (m *mockSettingRepo) Save(_ context.Context, s *model.SystemSetting) error {
	cp := *s
	m.setting = &cp
	return nil
}

// ── fixtures ──

var testLoc = time.FixedZone("PHT", 8*60*60)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func (m *mocks) seedUser(username, role string, active bool) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	u := &model.User{
		Username:     username,
		FullName:     strings.ToUpper(username[:1]) + username[1:],
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     active,
	}
	_ = m.users.Create(context.Background(), u)
	return u
}

func (m *mocks) seedSchoolYear(name string, active bool) *model.SchoolYear {
	var start, end int
	fmt.Sscanf(name, "%d-%d", &start, &end)
	sy := &model.SchoolYear{
		Name:      name,
		StartDate: time.Date(start, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(end, time.April, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  active,
	}
	_ = m.years.Create(context.Background(), sy)
	return sy
}

func (m *mocks) seedClass(grade, section, schoolYearID string, teacherID *string) *model.Class {
	c := &model.Class{
		GradeLevel:   grade,
		Section:      section,
		SchoolYearID: schoolYearID,
		TeacherID:    teacherID,
		IsActive:     true,
	}
	_ = m.classes.Create(context.Background(), c)
	return c
}

func (m *mocks) seedStudent(studentID string, classID *string, active bool) *model.Student {
	st := &model.Student{
		StudentID: studentID,
		FirstName: "Juan",
		LastName:  "Cruz " + studentID,
		ClassID:   classID,
		IsActive:  active,
	}
	_ = m.students.Create(context.Background(), st)
	return st
}

func matchesPlan(u *model.User, plan string, at time.Time) bool {
	switch plan {
	case repository.PlanPremium:
		return u.PremiumActive(at)
	case repository.PlanExpired:
		return u.IsPremium && !u.PremiumActive(at)
	case repository.PlanFree:
		return !u.IsPremium
	default:
		return true
	}
}
