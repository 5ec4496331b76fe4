package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/models"
)

func TestAppStateSeedsAdminWhenUsersMissing(t *testing.T) {
	state := newTestState(newMemStore())
	state.Load(context.Background())

	users := state.Users()
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Login)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
	assert.Equal(t, models.AllUnits, users[0].Units)
}

func TestAppStateCorruptSnapshotFallsBackToDefault(t *testing.T) {
	store := newMemStore()
	store.data[models.StoreKeyUsers] = []byte("{not json")
	store.data[models.StoreKeyStudents] = []byte("42")
	store.data[models.StoreKeySettings] = []byte("[")

	state := newTestState(store)
	state.Load(context.Background())

	assert.Len(t, state.Users(), 1)
	assert.Empty(t, state.Students())
	assert.NotNil(t, state.Students())
	assert.Equal(t, testDefaults.Settings.RetentionTemplate, state.Settings().RetentionTemplate)
}

func TestAppStateRestoresSettingsOverDefaults(t *testing.T) {
	store := newMemStore()
	store.data[models.StoreKeySettings] = []byte(`{"script_url":"https://script.example/exec","trial_template":""}`)

	state := newTestState(store)
	state.Load(context.Background())

	settings := state.Settings()
	assert.Equal(t, "https://script.example/exec", settings.ScriptURL)
	assert.Equal(t, testDefaults.Settings.TrialTemplate, settings.TrialTemplate)
}

func TestAppStateWritesThroughAndRestores(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	state := newTestState(store)

	record := models.AttendanceRecord{ID: "freq-1", StudentName: "Ana", Unit: "Centro", Date: "2024-03-05", Status: models.AttendanceStatusPresent}
	require.NoError(t, state.UpsertAttendance(ctx, []models.AttendanceRecord{record}))
	require.NoError(t, state.AppendRetentionAction(ctx, models.RetentionAction{AlertID: "risk|x", ActionDate: "2024-03-06"}))
	assert.Contains(t, store.raw(models.StoreKeyAttendance), "freq-1")

	restored := newTestState(store)
	restored.Load(ctx)
	assert.Equal(t, []models.AttendanceRecord{record}, restored.Attendance())
	require.Len(t, restored.RetentionActions(), 1)
	assert.Equal(t, "risk|x", restored.RetentionActions()[0].AlertID)
}

func TestAppStateUpsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	state := newTestState(newMemStore())

	first := models.AttendanceRecord{ID: "freq-1", Status: models.AttendanceStatusPresent}
	second := models.AttendanceRecord{ID: "freq-1", Status: models.AttendanceStatusAbsent}
	require.NoError(t, state.UpsertAttendance(ctx, []models.AttendanceRecord{first}))
	require.NoError(t, state.UpsertAttendance(ctx, []models.AttendanceRecord{second, {ID: "freq-2"}}))

	records := state.Attendance()
	require.Len(t, records, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, records[0].Status)
}

func TestAppStateApplySyncKeepsLocalOnlyAttendance(t *testing.T) {
	ctx := context.Background()
	state := newTestState(newMemStore())
	require.NoError(t, state.UpsertAttendance(ctx, []models.AttendanceRecord{
		{ID: "shared", Note: "local"},
		{ID: "local-only"},
	}))

	err := state.ApplySync(ctx, SyncResult{
		Dataset: models.Dataset{
			Students:   []models.Student{{ID: "aluno-ana-centro", Name: "Ana"}},
			Attendance: []models.AttendanceRecord{{ID: "shared", Note: "remote"}},
		},
	})
	require.NoError(t, err)

	records := state.Attendance()
	require.Len(t, records, 2)
	assert.Equal(t, "remote", records[0].Note)
	assert.Equal(t, "local-only", records[1].ID)
	assert.Len(t, state.Students(), 1)
	assert.NotNil(t, state.TrialLessons())
	assert.Len(t, state.Users(), 1, "empty remote user list keeps existing users")
}

func TestAppStateApplySyncRollsBackPartialWrite(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	state := newTestState(store)
	require.NoError(t, state.ApplySync(ctx, SyncResult{
		Dataset: models.Dataset{Students: []models.Student{{ID: "aluno-ana-centro", Name: "Ana"}}},
	}))
	before := store.raw(models.StoreKeyStudents)

	store.putErr = errors.New("disk full")
	store.failOn = models.StoreKeyAttendance
	err := state.ApplySync(ctx, SyncResult{
		Dataset: models.Dataset{
			Students:   []models.Student{{ID: "aluno-bia-centro", Name: "Bia"}, {ID: "aluno-caio-centro", Name: "Caio"}},
			Attendance: []models.AttendanceRecord{{ID: "freq-1"}},
		},
	})
	require.Error(t, err)

	require.Len(t, state.Students(), 1)
	assert.Equal(t, "Ana", state.Students()[0].Name)
	assert.Empty(t, state.Attendance())
	assert.Equal(t, before, store.raw(models.StoreKeyStudents), "students snapshot written before the failure is put back")
}

func TestAppStateSaveFailureIsReported(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("disk full")
	state := newTestState(store)

	err := state.UpsertAttendance(context.Background(), []models.AttendanceRecord{{ID: "x"}})
	require.Error(t, err)
}

func TestAppStateAccessorsReturnCopies(t *testing.T) {
	ctx := context.Background()
	state := newTestState(newMemStore())
	require.NoError(t, state.UpsertAttendance(ctx, []models.AttendanceRecord{{ID: "a"}}))

	records := state.Attendance()
	records[0].ID = "mutated"
	assert.Equal(t, "a", state.Attendance()[0].ID)
}

func TestAppStateUpdateTrialLessonNotFound(t *testing.T) {
	state := newTestState(newMemStore())
	_, err := state.UpdateTrialLesson(context.Background(), "missing", func(*models.TrialLesson) error { return nil })
	require.Error(t, err)
}
