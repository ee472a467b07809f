package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/notedrop/notedrop/pkg/controller/http"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/repository/memory"
	"github.com/notedrop/notedrop/pkg/service/notion"
	"github.com/notedrop/notedrop/pkg/usecase"
)

func newTestServer(t *testing.T, opts ...usecase.Option) (*httpctrl.Server, interfaces.Repository) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, opts...)
	gt.NoError(t, uc.EnsureDefaults(context.Background())).Required()
	return httpctrl.New(uc), repo
}

func postJSON(t *testing.T, srv http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	gt.NoError(t, err).Required()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	return body
}

func TestCreateNoteEndpoint(t *testing.T) {
	t.Run("creates a note", func(t *testing.T) {
		srv, _ := newTestServer(t)

		rec := postJSON(t, srv, "/api/notes", map[string]string{
			"text":   "Review the audit findings before Friday.",
			"source": "manual",
			"area":   "Operations",
		})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		body := decodeBody(t, rec)
		gt.Value(t, body["duplicate"]).Equal(false)
		note := body["note"].(map[string]any)
		gt.Value(t, note["area"]).Equal("Operations")
		gt.Value(t, note["status"]).Equal("pending")
	})

	t.Run("duplicate capture returns 200 with a flag", func(t *testing.T) {
		srv, _ := newTestServer(t)
		payload := map[string]string{"text": "same note", "source": "manual"}

		rec := postJSON(t, srv, "/api/notes", payload)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		rec = postJSON(t, srv, "/api/notes", payload)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decodeBody(t, rec)["duplicate"]).Equal(true)
	})

	t.Run("empty text is a bad request", func(t *testing.T) {
		srv, _ := newTestServer(t)
		rec := postJSON(t, srv, "/api/notes", map[string]string{"text": "   ", "source": "manual"})
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		srv, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodPost, "/api/notes", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestGetNoteEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := postJSON(t, srv, "/api/notes", map[string]string{"text": "look me up", "source": "manual"})
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	note := decodeBody(t, rec)["note"].(map[string]any)
	id := int64(note["id"].(float64))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/notes/%d", id), nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, decodeBody(t, rec)["title"]).Equal("look me up")

	req = httptest.NewRequest(http.MethodGet, "/api/notes/9999", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

// schemaCheckSignal reports when a background sync pass reaches the remote
// schema check.
type schemaCheckSignal struct {
	notion.Service
	checked chan struct{}
}

func (s *schemaCheckSignal) ValidateSchema(ctx context.Context, dbID string, settings *model.Settings) error {
	close(s.checked)
	return nil
}

func TestSyncEndpoint(t *testing.T) {
	t.Run("trigger is accepted and the pass runs in the background", func(t *testing.T) {
		repo := memory.New()
		settings := model.DefaultSettings()
		settings.NotionToken = "secret_test"
		settings.NotionDatabaseID = "db-test"
		gt.NoError(t, repo.Settings().Save(context.Background(), settings)).Required()

		signal := &schemaCheckSignal{checked: make(chan struct{})}
		uc := usecase.New(repo, usecase.WithNotionFactory(func(token string) (notion.Service, error) {
			return signal, nil
		}))
		srv := httpctrl.New(uc)

		rec := postJSON(t, srv, "/api/sync", map[string]string{})
		gt.Value(t, rec.Code).Equal(http.StatusAccepted)
		gt.Value(t, decodeBody(t, rec)["accepted"]).Equal(true)

		select {
		case <-signal.checked:
		case <-time.After(time.Second):
			t.Fatal("background sync pass never reached the remote schema check")
		}
	})

	t.Run("an unconfigured trigger is still accepted", func(t *testing.T) {
		srv, _ := newTestServer(t)
		rec := postJSON(t, srv, "/api/sync", map[string]string{})
		gt.Value(t, rec.Code).Equal(http.StatusAccepted)
	})
}

func TestMasterEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("list seeded values", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/masters/state", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		masters := decodeBody(t, rec)["masters"].([]any)
		gt.Array(t, masters).Length(3)
		first := masters[0].(map[string]any)
		gt.Value(t, first["value"]).Equal("Pending")
		gt.Value(t, first["system_locked"]).Equal(true)
	})

	t.Run("unknown category is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/masters/flavor", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("add then deactivate a value", func(t *testing.T) {
		rec := postJSON(t, srv, "/api/masters", map[string]string{"category": "area", "value": "Legal"})
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		rec = postJSON(t, srv, "/api/masters/deactivate", map[string]string{"category": "area", "value": "Legal"})
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("deactivating a locked value conflicts", func(t *testing.T) {
		rec := postJSON(t, srv, "/api/masters/deactivate", map[string]string{"category": "state", "value": "Done"})
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	t.Run("the token never leaves through a read", func(t *testing.T) {
		settings := model.DefaultSettings()
		settings.NotionToken = "secret_test"
		gt.NoError(t, repo.Settings().Save(ctx, settings)).Required()

		req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, decodeBody(t, rec)["notion_token"]).Equal("")
	})

	t.Run("saving with an empty token keeps the stored one", func(t *testing.T) {
		payload := model.DefaultSettings()
		payload.DefaultArea = "IT"
		data, err := json.Marshal(payload)
		gt.NoError(t, err).Required()

		req := httptest.NewRequest(http.MethodPut, "/api/settings", bytes.NewReader(data))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		stored, err := repo.Settings().Load(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.NotionToken).Equal("secret_test")
		gt.Value(t, stored.DefaultArea).Equal("IT")
	})
}

func TestActionEndpoints(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	note, err := repo.Note().Create(ctx, &model.Note{
		Fingerprint: "fp-action-endpoint",
		Title:       "note",
		RawText:     "note",
		Status:      types.SyncStatusPending,
		Source:      types.SourceManual,
	})
	gt.NoError(t, err).Required()
	action, err := repo.Action().Create(ctx, &model.Action{
		NoteID:      note.ID,
		Description: "Follow up",
		Status:      types.ActionStatusPending,
	})
	gt.NoError(t, err).Required()

	req := httptest.NewRequest(http.MethodGet, "/api/actions", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Array(t, decodeBody(t, rec)["actions"].([]any)).Length(1)

	rec = postJSON(t, srv, fmt.Sprintf("/api/actions/%d/done", action.ID), nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	got, err := repo.Action().Get(ctx, action.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Status).Equal(types.ActionStatusDone)
}
