package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

// StateDefaults seed the state when nothing usable was persisted.
type StateDefaults struct {
	Settings      models.Settings
	AdminLogin    string
	AdminPassword string
}

// AppState is the application session: every collection the dashboard shows,
// guarded by one lock. Each mutation is written through to the persistence
// cache before the lock is released, so the stored order matches memory.
//
// Accessors return fresh slices; nested slices inside records are shared and
// must be treated as read-only.
type AppState struct {
	mu          sync.RWMutex
	persist     *PersistenceService
	logger      *zap.Logger
	defaults    StateDefaults
	students    []models.Student
	classes     []models.Class
	enrollments []models.Enrollment
	attendance  []models.AttendanceRecord
	trials      []models.TrialLesson
	users       []models.User
	actions     []models.RetentionAction
	settings    models.Settings
}

// NewAppState constructs an empty state holding the defaults.
func NewAppState(persist *PersistenceService, defaults StateDefaults, logger *zap.Logger) *AppState {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppState{
		persist:     persist,
		logger:      logger,
		defaults:    defaults,
		students:    []models.Student{},
		classes:     []models.Class{},
		enrollments: []models.Enrollment{},
		attendance:  []models.AttendanceRecord{},
		trials:      []models.TrialLesson{},
		users:       []models.User{defaultAdmin(defaults)},
		actions:     []models.RetentionAction{},
		settings:    defaults.Settings,
	}
}

func defaultAdmin(defaults StateDefaults) models.User {
	return models.User{
		Login:    defaults.AdminLogin,
		Password: defaults.AdminPassword,
		Name:     "Administrador",
		Units:    models.AllUnits,
		Role:     models.RoleAdmin,
	}
}

// Load restores every collection from the persistence cache. Missing or corrupt
// entries fall back to empty collections, the seeded admin, or default settings.
func (s *AppState) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = loadCollection[models.Student](ctx, s.persist, models.StoreKeyStudents)
	s.classes = loadCollection[models.Class](ctx, s.persist, models.StoreKeyClasses)
	s.enrollments = loadCollection[models.Enrollment](ctx, s.persist, models.StoreKeyEnrollments)
	s.attendance = loadCollection[models.AttendanceRecord](ctx, s.persist, models.StoreKeyAttendance)
	s.trials = loadCollection[models.TrialLesson](ctx, s.persist, models.StoreKeyTrialLessons)
	s.actions = loadCollection[models.RetentionAction](ctx, s.persist, models.StoreKeyRetentionActions)

	s.users = loadCollection[models.User](ctx, s.persist, models.StoreKeyUsers)
	if len(s.users) == 0 {
		s.users = []models.User{defaultAdmin(s.defaults)}
	}

	settings := s.defaults.Settings
	if s.persist.Load(ctx, models.StoreKeySettings, &settings) {
		s.settings = mergeSettings(s.defaults.Settings, settings)
	} else {
		s.settings = s.defaults.Settings
	}

	s.logger.Info("state restored from cache",
		zap.Int("students", len(s.students)),
		zap.Int("classes", len(s.classes)),
		zap.Int("attendance", len(s.attendance)),
		zap.Int("users", len(s.users)),
	)
}

// mergeSettings keeps defaults for fields the stored settings leave blank.
func mergeSettings(defaults, stored models.Settings) models.Settings {
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	stored.ScriptURL = pick(stored.ScriptURL, defaults.ScriptURL)
	stored.MessagingURL = pick(stored.MessagingURL, defaults.MessagingURL)
	stored.MessagingToken = pick(stored.MessagingToken, defaults.MessagingToken)
	stored.RetentionTemplate = pick(stored.RetentionTemplate, defaults.RetentionTemplate)
	stored.TrialTemplate = pick(stored.TrialTemplate, defaults.TrialTemplate)
	stored.GeneralTemplate = pick(stored.GeneralTemplate, defaults.GeneralTemplate)
	return stored
}

func (s *AppState) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Student(nil), s.students...)
}

func (s *AppState) Classes() []models.Class {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Class(nil), s.classes...)
}

func (s *AppState) Enrollments() []models.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Enrollment(nil), s.enrollments...)
}

func (s *AppState) Attendance() []models.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AttendanceRecord(nil), s.attendance...)
}

func (s *AppState) TrialLessons() []models.TrialLesson {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.TrialLesson(nil), s.trials...)
}

func (s *AppState) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

func (s *AppState) RetentionActions() []models.RetentionAction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RetentionAction(nil), s.actions...)
}

func (s *AppState) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SyncResult is everything a sync replaces or merges in one step.
type SyncResult struct {
	Dataset      models.Dataset
	TrialLessons []models.TrialLesson
	// Users is ignored when empty so a sheet without logins cannot lock everyone out.
	Users []models.User
}

// ApplySync swaps in a sync result. Students, classes, enrollments and trial
// lessons are replaced; attendance keeps local-only records next to the remote
// ones (remote wins on id collisions). Memory changes only after every snapshot
// is stored; on a failed save the snapshots already written are put back.
func (s *AppState) ApplySync(ctx context.Context, result SyncResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attendance := mergeAttendance(result.Dataset.Attendance, s.attendance)
	trials := nonNil(result.TrialLessons)
	users := s.users
	if len(result.Users) > 0 {
		users = result.Users
	}
	next := map[string]interface{}{
		models.StoreKeyStudents:     result.Dataset.Students,
		models.StoreKeyClasses:      result.Dataset.Classes,
		models.StoreKeyEnrollments:  result.Dataset.Enrollments,
		models.StoreKeyAttendance:   attendance,
		models.StoreKeyTrialLessons: trials,
		models.StoreKeyUsers:        users,
	}

	written := make([]string, 0, len(syncKeys))
	for _, key := range syncKeys {
		if err := s.persist.Save(ctx, key, next[key]); err != nil {
			s.restoreSnapshots(ctx, written)
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to persist %s", key))
		}
		written = append(written, key)
	}

	s.students = result.Dataset.Students
	s.classes = result.Dataset.Classes
	s.enrollments = result.Dataset.Enrollments
	s.attendance = attendance
	s.trials = trials
	s.users = users
	return nil
}

var syncKeys = []string{
	models.StoreKeyStudents,
	models.StoreKeyClasses,
	models.StoreKeyEnrollments,
	models.StoreKeyAttendance,
	models.StoreKeyTrialLessons,
	models.StoreKeyUsers,
}

// restoreSnapshots rewrites keys from the in-memory collections. Failures are
// logged: the next successful save of each key repairs it.
func (s *AppState) restoreSnapshots(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.persist.Save(ctx, key, s.collection(key)); err != nil {
			s.logger.Warn("failed to restore snapshot after aborted sync", zap.String("key", key), zap.Error(err))
		}
	}
}

func mergeAttendance(remote, local []models.AttendanceRecord) []models.AttendanceRecord {
	merged := make([]models.AttendanceRecord, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		merged = append(merged, r)
	}
	for _, r := range local {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}

// UpsertAttendance appends new records and replaces existing ones with the same id.
func (s *AppState) UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int, len(s.attendance))
	for i, r := range s.attendance {
		index[r.ID] = i
	}
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			s.attendance[i] = r
			continue
		}
		index[r.ID] = len(s.attendance)
		s.attendance = append(s.attendance, r)
	}
	return s.saveAll(ctx, models.StoreKeyAttendance)
}

// UpdateTrialLesson applies mutate to the lesson with id and persists the result.
func (s *AppState) UpdateTrialLesson(ctx context.Context, id string, mutate func(*models.TrialLesson) error) (models.TrialLesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.trials {
		if s.trials[i].ID != id {
			continue
		}
		updated := s.trials[i]
		if err := mutate(&updated); err != nil {
			return models.TrialLesson{}, err
		}
		s.trials[i] = updated
		return updated, s.saveAll(ctx, models.StoreKeyTrialLessons)
	}
	return models.TrialLesson{}, appErrors.Clone(appErrors.ErrNotFound, "trial lesson not found")
}

// AppendRetentionAction adds to the append-only action log.
func (s *AppState) AppendRetentionAction(ctx context.Context, action models.RetentionAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
	return s.saveAll(ctx, models.StoreKeyRetentionActions)
}

// UpdateSettings replaces the runtime settings.
func (s *AppState) UpdateSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.saveAll(ctx, models.StoreKeySettings)
}

// saveAll writes the named collections. Callers hold the write lock.
func (s *AppState) saveAll(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := s.persist.Save(ctx, key, s.collection(key)); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to persist %s", key))
		}
	}
	return nil
}

func (s *AppState) collection(key string) interface{} {
	switch key {
	case models.StoreKeyStudents:
		return s.students
	case models.StoreKeyClasses:
		return s.classes
	case models.StoreKeyEnrollments:
		return s.enrollments
	case models.StoreKeyAttendance:
		return s.attendance
	case models.StoreKeyTrialLessons:
		return s.trials
	case models.StoreKeyUsers:
		return s.users
	case models.StoreKeyRetentionActions:
		return s.actions
	case models.StoreKeySettings:
		return s.settings
	default:
		return nil
	}
}

// Counts reports collection sizes for status views and metrics.
func (s *AppState) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		models.StoreKeyStudents:         len(s.students),
		models.StoreKeyClasses:          len(s.classes),
		models.StoreKeyEnrollments:      len(s.enrollments),
		models.StoreKeyAttendance:       len(s.attendance),
		models.StoreKeyTrialLessons:     len(s.trials),
		models.StoreKeyUsers:            len(s.users),
		models.StoreKeyRetentionActions: len(s.actions),
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// today is the ISO date used for new local records.
func today(now time.Time) string {
	return now.Format("2006-01-02")
}
