package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

func TestSheetRepositoryFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("t")
		assert.Equal(t, "abc", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"base":[{"estudante":"Ana","unidade":"A"}],"turmas":[{"nome":"Judô"}],"frequencia":[]}`))
	}))
	defer srv.Close()

	repo := NewSheetRepository(time.Second, nil)
	repo.now = func() time.Time { return time.UnixMilli(1700000000000) }

	payload, err := repo.Fetch(context.Background(), srv.URL+"?key=abc")
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", gotQuery)
	require.Len(t, payload.Base, 1)
	assert.Equal(t, "Ana", payload.Base[0]["estudante"])
	assert.Len(t, payload.Classes, 1)
	assert.Empty(t, payload.Attendance)
	assert.Empty(t, payload.TrialLessons)
	assert.Empty(t, payload.Users)
}

func TestSheetRepositoryFetchErrors(t *testing.T) {
	repo := NewSheetRepository(time.Second, nil)

	_, err := repo.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, appErrors.ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	_, err = repo.Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>login</html>`))
	}))
	defer bad.Close()
	_, err = repo.Fetch(context.Background(), bad.URL)
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
}

func TestSheetRepositoryPush(t *testing.T) {
	var received models.RemotePush
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	repo := NewSheetRepository(time.Second, nil)
	err := repo.Push(context.Background(), srv.URL, models.RemotePush{
		Action: models.RemoteActionSaveAttendance,
		Data:   []map[string]string{{"aluno": "Ana"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RemoteActionSaveAttendance, received.Action)
}

func TestSheetRepositoryPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	repo := NewSheetRepository(time.Second, nil)
	err := repo.Push(context.Background(), srv.URL, models.RemotePush{Action: models.RemoteActionSaveTrialLesson})
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
}

func TestWhatsAppRepositorySend(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	repo := NewWhatsAppRepository(time.Second)
	require.NoError(t, repo.Send(context.Background(), srv.URL, "secret", "5511999990000", "Olá"))
	assert.Equal(t, map[string]string{"data.contact.Phone[0]": "5511999990000", "message": "Olá"}, body)
}

func TestWhatsAppRepositorySendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := NewWhatsAppRepository(time.Second)
	err := repo.Send(context.Background(), srv.URL, "bad", "5511", "x")
	assert.ErrorIs(t, err, appErrors.ErrRemoteUnavailable)
}
