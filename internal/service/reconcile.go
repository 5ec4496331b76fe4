package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sports-school-ops/internal/models"
	"github.com/noah-isme/sports-school-ops/pkg/textnorm"
)

// Reconcile folds raw spreadsheet rows into the normalized collections.
//
// Base rows are per-enrollment: a student with three courses appears three
// times. Rows collapse into one Student per normalized (name, unit); the first
// row to populate an optional field wins, while an Active row always forces the
// student Active. Two keys that slugify to the same id (e.g. "Ana-Silva" and
// "Ana Silva") stay separate students; the later one gets a numeric suffix.
// Reconcile is pure and returns identical output for identical input.
func Reconcile(baseRows, classRows, attendanceRows []models.Row) models.Dataset {
	students, enrollments := reconcileStudents(baseRows)
	return models.Dataset{
		Students:    students,
		Classes:     reconcileClasses(classRows),
		Enrollments: enrollments,
		Attendance:  reconcileAttendance(attendanceRows),
	}
}

// StudentID derives the stable student identifier.
func StudentID(name, unit string) string {
	return "aluno-" + textnorm.Slugify(name) + "-" + textnorm.Slugify(unit)
}

// CourseClassID is the enrollment-side class reference. It is not a Class.ID.
func CourseClassID(course, unit string) string {
	return textnorm.Slugify(course) + "-" + textnorm.Slugify(unit)
}

func studentKey(name, unit string) string {
	return textnorm.Normalize(name) + "-" + textnorm.Normalize(unit)
}

// claimID reserves base in used, appending "-2", "-3"... when it is taken.
// Slugs carry no hyphens, so a suffixed id never equals a derived one.
func claimID(base string, used map[string]struct{}) string {
	id := base
	for n := 2; ; n++ {
		if _, taken := used[id]; !taken {
			break
		}
		id = base + "-" + strconv.Itoa(n)
	}
	used[id] = struct{}{}
	return id
}

// isActiveStatus treats a blank status as active: rows without a status
// column come from sheets that only list current enrollments.
func isActiveStatus(raw string) bool {
	switch textnorm.Normalize(raw) {
	case "", "ativo", "ativa", "active", "matriculado", "matriculada":
		return true
	}
	return false
}

func reconcileStudents(rows []models.Row) ([]models.Student, []models.Enrollment) {
	order := make([]string, 0, len(rows))
	byKey := make(map[string]*models.Student, len(rows))
	usedIDs := make(map[string]struct{}, len(rows))
	var enrollments []models.Enrollment
	seenEnrollment := make(map[string]struct{})

	for _, row := range rows {
		f := newRowFields(row)
		name := f.text(fieldStudentName)
		if name == "" {
			continue
		}
		unit := f.text(fieldUnit)
		active := isActiveStatus(f.text(fieldStatus))

		key := studentKey(name, unit)
		student, ok := byKey[key]
		if !ok {
			student = &models.Student{
				ID:               claimID(StudentID(name, unit), usedIDs),
				Name:             name,
				Unit:             unit,
				Status:           models.EnrollmentStatusCancelled,
				ActiveCourses:    []string{},
				CancelledCourses: []models.CancelledCourse{},
			}
			byKey[key] = student
			order = append(order, key)
		}
		enrichStudent(student, f)
		if active {
			student.Status = models.EnrollmentStatusActive
		}

		course := f.text(fieldCourse)
		if course == "" {
			continue
		}
		if active {
			enrollment := models.Enrollment{
				ID:             "matricula-" + strings.TrimPrefix(student.ID, "aluno-") + "-" + textnorm.Slugify(course),
				StudentID:      student.ID,
				ClassID:        CourseClassID(course, unit),
				Course:         course,
				Unit:           unit,
				EnrollmentDate: f.date(fieldEnrollmentDate),
			}
			if _, dup := seenEnrollment[enrollment.ID]; dup {
				continue
			}
			seenEnrollment[enrollment.ID] = struct{}{}
			student.ActiveCourses = append(student.ActiveCourses, course)
			enrollments = append(enrollments, enrollment)
			continue
		}

		record := models.CancelledCourse{
			CourseName:       course,
			Unit:             unit,
			EnrollmentDate:   f.date(fieldEnrollmentDate),
			CancellationDate: f.date(fieldCancellationDate),
		}
		if !hasCancelledCourse(student.CancelledCourses, record) {
			student.CancelledCourses = append(student.CancelledCourses, record)
		}
	}

	students := make([]models.Student, 0, len(order))
	for _, key := range order {
		students = append(students, *byKey[key])
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	return students, enrollments
}

// enrichStudent fills optional fields that are still empty.
func enrichStudent(s *models.Student, f rowFields) {
	fill := func(dst *string, value string) {
		if *dst == "" {
			*dst = value
		}
	}
	fill(&s.BirthDate, f.date(fieldBirthDate))
	fill(&s.Guardian1, f.text(fieldGuardian1))
	fill(&s.Phone1, f.text(fieldPhone1))
	fill(&s.Guardian2, f.text(fieldGuardian2))
	fill(&s.Phone2, f.text(fieldPhone2))
	fill(&s.Email, f.text(fieldEmail))
	fill(&s.Stage, f.text(fieldStage))
	fill(&s.SchoolYear, f.text(fieldSchoolYear))
	fill(&s.SchoolClass, f.text(fieldSchoolClass))
}

func hasCancelledCourse(existing []models.CancelledCourse, record models.CancelledCourse) bool {
	for _, c := range existing {
		if c.CourseName == record.CourseName && c.CancellationDate == record.CancellationDate {
			return true
		}
	}
	return false
}

func reconcileClasses(rows []models.Row) []models.Class {
	classes := make([]models.Class, 0, len(rows))
	for _, row := range rows {
		f := newRowFields(row)
		name := f.text(fieldClassName)
		if name == "" {
			continue
		}
		unit := f.text(fieldUnit)
		schedule := f.text(fieldSchedule)

		id := f.text(fieldID)
		if id == "" {
			id = "turma-" + textnorm.Slugify(name) + "-" + textnorm.Slugify(unit) + "-" + textnorm.Slugify(schedule)
		}
		capacity := f.integer(fieldCapacity)
		if capacity <= 0 {
			capacity = models.DefaultClassCapacity
		}
		classes = append(classes, models.Class{
			ID:         id,
			Name:       name,
			Unit:       unit,
			Schedule:   schedule,
			Teacher:    f.text(fieldTeacher),
			Capacity:   capacity,
			MonthlyFee: f.money(fieldFee),
		})
	}
	return classes
}

func reconcileAttendance(rows []models.Row) []models.AttendanceRecord {
	records := make([]models.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		f := newRowFields(row)
		studentName := f.text(fieldAttendanceStudent)
		if studentName == "" {
			continue
		}
		records = append(records, attendanceFromFields(f, studentName))
	}
	return records
}

func attendanceFromFields(f rowFields, studentName string) models.AttendanceRecord {
	unit := f.text(fieldUnit)
	className := f.text(fieldAttendanceClass)
	date := f.date(fieldDate)

	status := models.AttendanceStatusAbsent
	if textnorm.Normalize(f.text(fieldAttendanceStatus)) == "presente" {
		status = models.AttendanceStatusPresent
	}

	id := f.text(fieldID)
	if id == "" {
		id = AttendanceID(studentName, unit, className, date)
	}
	return models.AttendanceRecord{
		ID:          id,
		StudentID:   StudentID(studentName, unit),
		ClassID:     CourseClassID(className, unit),
		Unit:        unit,
		Date:        date,
		Status:      status,
		Note:        f.text(fieldNote),
		StudentName: studentName,
		ClassName:   className,
		Alarm:       f.text(fieldAlarm),
	}
}

// AttendanceID is the synthetic id for attendance rows lacking one.
func AttendanceID(studentName, unit, className, date string) string {
	return strings.Join([]string{"freq", textnorm.Slugify(studentName), textnorm.Slugify(unit), textnorm.Slugify(className), date}, "-")
}
