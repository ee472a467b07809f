package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/utils/async"
	"github.com/notedrop/notedrop/pkg/utils/logging"
)

type noteResponse struct {
	ID          int64  `json:"id"`
	CreatedAt   string `json:"created_at"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Area        string `json:"area"`
	Type        string `json:"type"`
	State       string `json:"state"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Actions     string `json:"actions,omitempty"`
	Status      string `json:"status"`
	RemoteID    string `json:"remote_id,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	Attempts    int    `json:"attempts"`
}

func toNoteResponse(note *model.Note) *noteResponse {
	return &noteResponse{
		ID:          note.ID,
		CreatedAt:   note.CreatedAt.Format(time.RFC3339),
		Source:      note.Source.String(),
		Fingerprint: note.Fingerprint,
		Title:       note.Title,
		Text:        note.RawText,
		Area:        note.Area,
		Type:        note.Type,
		State:       note.State,
		Priority:    note.Priority,
		DueDate:     note.DueDate,
		Summary:     note.Summary,
		Actions:     note.ActionsText,
		Status:      note.Status.String(),
		RemoteID:    note.RemoteID,
		LastError:   note.LastError,
		Attempts:    note.Attempts,
	}
}

type createNoteRequest struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Title    string `json:"title"`
	Area     string `json:"area"`
	Type     string `json:"type"`
	State    string `json:"state"`
	Priority string `json:"priority"`
	DueDate  string `json:"due_date"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid request body"))
		return
	}

	note, err := s.uc.CreateNote(r.Context(), &model.CreateNoteRequest{
		RawText:  req.Text,
		Source:   types.Source(req.Source),
		Title:    req.Title,
		Area:     req.Area,
		Type:     req.Type,
		State:    req.State,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		// A duplicate is a normal outcome of capture, not a failure.
		if errors.Is(err, types.ErrDuplicateNote) {
			respondJSON(w, r, http.StatusOK, map[string]any{"duplicate": true})
			return
		}
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"duplicate": false,
		"note":      toNoteResponse(note),
	})
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	notes, err := s.uc.ListNotes(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]*noteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"notes": resp})
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid note ID"))
		return
	}

	note, err := s.uc.GetNote(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, toNoteResponse(note))
}

type actionResponse struct {
	ID          int64  `json:"id"`
	NoteID      int64  `json:"note_id"`
	Description string `json:"description"`
	Area        string `json:"area"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	RemoteID    string `json:"remote_id,omitempty"`
}

func toActionResponse(action *model.Action) *actionResponse {
	resp := &actionResponse{
		ID:          action.ID,
		NoteID:      action.NoteID,
		Description: action.Description,
		Area:        action.Area,
		Status:      action.Status.String(),
		CreatedAt:   action.CreatedAt.Format(time.RFC3339),
		RemoteID:    action.RemoteID,
	}
	if action.CompletedAt != nil {
		resp.CompletedAt = action.CompletedAt.Format(time.RFC3339)
	}
	return resp
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.uc.ListPendingActions(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]*actionResponse, len(actions))
	for i, action := range actions {
		resp[i] = toActionResponse(action)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"actions": resp})
}

func (s *Server) markActionDone(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid action ID"))
		return
	}

	if err := s.uc.MarkActionDone(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"done": true})
}

type masterResponse struct {
	Category     string `json:"category"`
	Value        string `json:"value"`
	Active       bool   `json:"active"`
	SystemLocked bool   `json:"system_locked"`
}

func (s *Server) listMasters(w http.ResponseWriter, r *http.Request) {
	category, err := types.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid category"))
		return
	}

	values, err := s.uc.ListMasters(r.Context(), category)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]*masterResponse, len(values))
	for i, value := range values {
		resp[i] = &masterResponse{
			Category:     value.Category.String(),
			Value:        value.Value,
			Active:       value.Active,
			SystemLocked: value.SystemLocked,
		}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"masters": resp})
}

type masterRequest struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

func (s *Server) addMaster(w http.ResponseWriter, r *http.Request) {
	var req masterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid request body"))
		return
	}
	category, err := types.ParseCategory(req.Category)
	if err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid category"))
		return
	}

	if err := s.uc.AddMasterValue(r.Context(), category, req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, map[string]any{"added": true})
}

func (s *Server) deactivateMaster(w http.ResponseWriter, r *http.Request) {
	var req masterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid request body"))
		return
	}
	category, err := types.ParseCategory(req.Category)
	if err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid category"))
		return
	}

	if err := s.uc.DeactivateMasterValue(r.Context(), category, req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"deactivated": true})
}

func (s *Server) pushSchema(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.PushSchema(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"pushed": true})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.uc.GetSettings(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	// The token is write-only through the API.
	settings.NotionToken = ""
	respondJSON(w, r, http.StatusOK, settings)
}

func (s *Server) saveSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		handleError(w, r, goerr.Wrap(types.ErrInvalidInput, "invalid request body"))
		return
	}

	// An empty token keeps the stored one so saving the form does not wipe
	// the credential.
	if settings.NotionToken == "" {
		current, err := s.uc.GetSettings(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		settings.NotionToken = current.NotionToken
	}

	if err := s.uc.SaveSettings(r.Context(), &settings); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"saved": true})
}

// triggerSync accepts the request and runs the pass in the background, the
// same way the interval worker does. Pass outcomes surface in the logs.
func (s *Server) triggerSync(w http.ResponseWriter, r *http.Request) {
	async.Dispatch(r.Context(), func(ctx context.Context) error {
		_, err := s.uc.SyncPending(ctx)
		if errors.Is(err, types.ErrSyncAlreadyRunning) {
			logging.From(ctx).Info("sync pass already in flight, trigger ignored")
			return nil
		}
		return err
	})
	respondJSON(w, r, http.StatusAccepted, map[string]any{"accepted": true})
}
