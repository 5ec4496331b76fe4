package service

import (
	"context"
	"errors"
	"sync"

	"github.com/noah-isme/sports-school-ops/internal/models"
	appErrors "github.com/noah-isme/sports-school-ops/pkg/errors"
)

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	putErr error
	// failOn limits putErr to one key when set.
	failOn string
	puts   int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return raw, nil
}

func (m *memStore) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil && (m.failOn == "" || m.failOn == key) {
		return m.putErr
	}
	m.puts++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

var testDefaults = StateDefaults{
	Settings: models.Settings{
		RetentionTemplate: "Olá {{responsavel}}, sentimos falta de {{estudante}} em {{curso}}.",
		TrialTemplate:     "Olá {{responsavel}}! Aula experimental de {{estudante}} em {{curso}} ({{unidade}}).",
		GeneralTemplate:   "Olá {{responsavel}}.",
	},
	AdminLogin:    "admin",
	AdminPassword: "admin",
}

func newTestState(store *memStore) *AppState {
	return NewAppState(NewPersistenceService(store, nil, nil), testDefaults, nil)
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{Login: "admin", Name: "Administrador", Role: models.RoleAdmin, Units: models.AllUnits}
}

func staffClaims(units string) *models.JWTClaims {
	return &models.JWTClaims{Login: "prof", Name: "Professora", Role: models.RoleStaff, Units: units}
}

type pushCall struct {
	action models.RemoteAction
	data   interface{}
}

type fakePushQueue struct {
	mu    sync.Mutex
	calls []pushCall
	err   error
}

func (f *fakePushQueue) Enqueue(action models.RemoteAction, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pushCall{action: action, data: data})
	return f.err
}

type sentMessage struct {
	url, token, phone, message string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, webhookURL, token, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{url: webhookURL, token: token, phone: phone, message: message})
	return nil
}

type staticSettings struct {
	settings models.Settings
}

func (s staticSettings) Settings() models.Settings { return s.settings }

type fakeFetcher struct {
	payload *models.RemotePayload
	err     error
	block   chan struct{}
	calls   int
	mu      sync.Mutex
}

func (f *fakeFetcher) Fetch(ctx context.Context, _ string) (*models.RemotePayload, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

var errRemoteDown = errors.New("remote down")
