package services

import (
	"context"
	"time"

	"github.com/seyi/unimark/internal/app/models"
	"github.com/seyi/unimark/internal/pkg/apperrors"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users     map[int64]*models.User
	lecturers map[int64]*models.Lecturer
	students  map[int64]*models.Student
	nextID    int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:     make(map[int64]*models.User),
		lecturers: make(map[int64]*models.Lecturer),
		students:  make(map[int64]*models.Student),
		nextID:    1,
	}
}

func (f *fakeUserRepo) addLecturer(staffID string, courses ...string) *models.Lecturer {
	user := &models.User{ID: f.nextID, Email: staffID + "@uni.test", Role: models.RoleLecturer}
	lecturer := &models.Lecturer{ID: f.nextID, UserID: user.ID, StaffID: staffID, Courses: courses, User: user}
	f.users[user.ID] = user
	f.lecturers[lecturer.ID] = lecturer
	f.nextID++
	return lecturer
}

func (f *fakeUserRepo) CreateLecturer(_ context.Context, user *models.User, lecturer *models.Lecturer) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	lecturer.ID = f.nextID
	lecturer.UserID = user.ID
	f.users[user.ID] = user
	f.lecturers[lecturer.ID] = lecturer
	f.nextID++
	return nil
}

func (f *fakeUserRepo) CreateStudent(_ context.Context, user *models.User, student *models.Student) error {
	user.ID = f.nextID
	student.ID = f.nextID
	student.UserID = user.ID
	f.users[user.ID] = user
	f.students[student.ID] = student
	f.nextID++
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetLecturerByID(_ context.Context, id int64) (*models.Lecturer, error) {
	if l, ok := f.lecturers[id]; ok {
		return l, nil
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (f *fakeUserRepo) GetLecturerByUserID(_ context.Context, userID int64) (*models.Lecturer, error) {
	for _, l := range f.lecturers {
		if l.UserID == userID {
			return l, nil
		}
	}
	return nil, apperrors.ErrLecturerNotFound
}

func (f *fakeUserRepo) GetStudentByID(_ context.Context, id int64) (*models.Student, error) {
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeUserRepo) GetStudentByUserID(_ context.Context, userID int64) (*models.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

type fakeSessionRepo struct {
	sessions map[string]*models.AttendanceSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.AttendanceSession)}
}

func (f *fakeSessionRepo) Create(_ context.Context, session *models.AttendanceSession) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*models.AttendanceSession, error) {
	if s, ok := f.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, apperrors.ErrSessionNotFound
}

func (f *fakeSessionRepo) Close(_ context.Context, id string) error {
	s, ok := f.sessions[id]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	s.IsActive = false
	return nil
}

func (f *fakeSessionRepo) CloseExpired(_ context.Context, now time.Time) (int64, error) {
	var closed int64
	for _, s := range f.sessions {
		if s.IsActive && s.EndTime.Before(now) {
			s.IsActive = false
			closed++
		}
	}
	return closed, nil
}

func (f *fakeSessionRepo) ListByLecturer(_ context.Context, lecturerID int64, limit, offset int) ([]*models.SessionSummary, error) {
	var out []*models.SessionSummary
	for _, s := range f.sessions {
		if s.LecturerID == lecturerID {
			out = append(out, &models.SessionSummary{AttendanceSession: *s})
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) CountByCourse(_ context.Context, courseCode string) (int64, error) {
	var count int64
	for _, s := range f.sessions {
		if s.CourseCode == courseCode {
			count++
		}
	}
	return count, nil
}

type recordKey struct {
	sessionID string
	studentID int64
}

type fakeAttendanceRepo struct {
	records  map[recordKey]*models.AttendanceRecord
	sessions *fakeSessionRepo
	nextID   int64
}

func newFakeAttendanceRepo(sessions *fakeSessionRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		records:  make(map[recordKey]*models.AttendanceRecord),
		sessions: sessions,
		nextID:   1,
	}
}

func (f *fakeAttendanceRepo) Mark(_ context.Context, record *models.AttendanceRecord) (bool, error) {
	key := recordKey{record.SessionID, record.StudentID}
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	record.ID = f.nextID
	f.nextID++
	cp := *record
	f.records[key] = &cp
	return true, nil
}

func (f *fakeAttendanceRepo) CountBySession(_ context.Context, sessionID string) (int64, error) {
	var count int64
	for key := range f.records {
		if key.sessionID == sessionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) CountForStudentCourse(_ context.Context, studentID int64, courseCode string) (int64, error) {
	var count int64
	for key := range f.records {
		if key.studentID != studentID {
			continue
		}
		if s, ok := f.sessions.sessions[key.sessionID]; ok && s.CourseCode == courseCode {
			count++
		}
	}
	return count, nil
}

func (f *fakeAttendanceRepo) CoursesForStudent(_ context.Context, studentID int64) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for key := range f.records {
		if key.studentID != studentID {
			continue
		}
		s, ok := f.sessions.sessions[key.sessionID]
		if !ok {
			continue
		}
		if _, dup := seen[s.CourseCode]; !dup {
			seen[s.CourseCode] = struct{}{}
			out = append(out, s.CourseCode)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) HistoryForStudent(_ context.Context, studentID int64, limit, offset int) ([]*models.HistoryEntry, error) {
	var out []*models.HistoryEntry
	for key, r := range f.records {
		if key.studentID != studentID {
			continue
		}
		s := f.sessions.sessions[key.sessionID]
		out = append(out, &models.HistoryEntry{
			RecordID:    r.ID,
			CourseCode:  s.CourseCode,
			SessionDate: s.StartTime,
			MarkedAt:    r.MarkedAt,
			Status:      r.Status,
		})
	}
	return out, nil
}

func (f *fakeAttendanceRepo) RowsForSession(_ context.Context, sessionID string) ([]*models.ReportRow, error) {
	var out []*models.ReportRow
	for key, r := range f.records {
		if key.sessionID == sessionID {
			out = append(out, &models.ReportRow{
				Name:       "Student",
				SignedInAt: r.MarkedAt,
				Status:     r.Status,
			})
		}
	}
	return out, nil
}
