package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/marpview/internal/domain/entities"
)

const (
	// multipart parts above this size spill to temporary files
	maxUploadMemory = 8 << 20

	// allowance for multipart framing on top of the deck size limit
	uploadOverhead = 1 << 20
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// NavigateRequest is the body of POST /api/navigate
type NavigateRequest struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// ThemeBody is the body of the theme preference endpoints
type ThemeBody struct {
	Theme entities.ThemePreference `json:"theme"`
}

// HealthResponse reports the server and session state
type HealthResponse struct {
	Status  string             `json:"status"`
	Version string             `json:"version"`
	State   entities.ViewState `json:"state"`
	Clients int                `json:"clients"`
}

type unknownActionError struct {
	name string
}

func (e *unknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.name)
}

// handleViewer serves the viewer shell page
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	page := renderer.ViewerPage{
		Title:        "marpview",
		Theme:        string(s.session.Theme()),
		Language:     s.config.Viewer.Language,
		Version:      s.versionString(),
		Extensions:   s.config.Viewer.Extensions(),
		WebSocketURL: "/ws",
	}
	if page.Language == "" {
		page.Language = "en"
	}

	html, err := s.pages.RenderViewer(r.Context(), page)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		s.logger.WithError(err).Error("Failed to write viewer page")
	}
}

// handleUpload loads a deck from the multipart "file" field
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Viewer.GetMaxFileSize()+uploadOverhead)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, string(entities.ErrorKindFileRead), "File is too large")
			return
		}
		s.handleError(w, err, http.StatusBadRequest)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing_file", "The request has no file field")
		return
	}
	defer closeQuietly(file)

	view, err := s.inputHandler().HandleFile(r.Context(), header.Filename, file)
	if err != nil {
		s.logger.WithError(err).WithField("file", header.Filename).Warn("Upload rejected")
		s.writeJSONStatus(w, statusFor(err), view)
		return
	}

	s.writeJSON(w, view)
}

// handleView returns the current view projection
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.session.View())
}

// handleNavigate applies a command posted by a button or script
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	action, ok := entities.ParseAction(req.Action)
	if !ok {
		s.writeErrorBody(w, http.StatusBadRequest, errorBody(&unknownActionError{name: req.Action}))
		return
	}

	view, err := s.inputHandler().HandleCommand(entities.Command{Action: action, Index: req.Index})
	if err != nil {
		s.writeErrorBody(w, statusFor(err), errorBody(err))
		return
	}

	s.writeJSON(w, view)
}

// handlePrint renders every slide of the deck on one printable page
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	printer := s.printSink()
	if printer == nil {
		s.writeError(w, http.StatusNotImplemented, "print_unavailable", "Printing is not configured")
		return
	}

	deck := s.session.Deck()
	if deck == nil {
		s.writeError(w, http.StatusNotFound, string(entities.ErrorKindEmptyDeck), "No deck is loaded")
		return
	}

	var buf bytes.Buffer
	if err := printer.Print(&buf, deck); err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WithError(err).Error("Failed to write print page")
	}
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, ThemeBody{Theme: s.session.Theme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body ThemeBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&body); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	view, err := s.session.SetTheme(body.Theme)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_theme", err.Error())
		return
	}

	s.writeJSON(w, ThemeBody{Theme: view.Theme})
}

// handleThemes lists the slide themes a deck can select
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	themes := []renderer.Theme{}
	if lister := s.themeLister(); lister != nil {
		themes = lister.List()
	}
	s.writeJSON(w, themes)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	monitor := s.activityMonitor()
	if monitor == nil {
		s.writeError(w, http.StatusNotImplemented, "stats_unavailable", "Stats are not enabled")
		return
	}
	s.writeJSON(w, monitor.Snapshot())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, HealthResponse{
		Status:  "ok",
		Version: s.versionString(),
		State:   s.session.View().State,
		Clients: s.connMgr.Count(),
	})
}

// statusFor maps a load or navigation error to an HTTP status
func statusFor(err error) int {
	switch entities.KindOf(err) {
	case entities.ErrorKindUnsupportedFileType:
		return http.StatusUnsupportedMediaType
	case entities.ErrorKindFileRead:
		return http.StatusBadRequest
	case entities.ErrorKindEmptyDeck, entities.ErrorKindRender, entities.ErrorKindOutOfRange:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorBody describes a domain error for a client
func errorBody(err error) ErrorResponse {
	kind := string(entities.KindOf(err))
	var unknown *unknownActionError
	if errors.As(err, &unknown) {
		kind = "unknown_action"
	}
	return ErrorResponse{Error: kind, Message: err.Error(), Time: time.Now()}
}

// handleError writes a sanitized error for failures that are not the client's concern
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	s.logger.WithError(err).WithField("status", status).Error("HTTP error")
	s.writeError(w, status, http.StatusText(status), message)
}

func (s *Server) writeError(w http.ResponseWriter, status int, kind, message string) {
	s.writeErrorBody(w, status, ErrorResponse{Error: kind, Message: message, Time: time.Now()})
}

func (s *Server) writeErrorBody(w http.ResponseWriter, status int, body ErrorResponse) {
	s.writeJSONStatus(w, status, body)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	s.writeJSONStatus(w, http.StatusOK, data)
}

func (s *Server) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.WithError(err).Error("Failed to encode JSON response")
	}
}
