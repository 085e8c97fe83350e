package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/ferrerallan/christmas-card-chain/internal/api/shared"
	"github.com/ferrerallan/christmas-card-chain/internal/card"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// CreateCardRequest is the JSON body of POST /api/cards.
type CreateCardRequest struct {
	SenderName string `json:"sender_name"`
	Name       string `json:"name"`
	Relation   string `json:"relation"`
	Hobbies    string `json:"hobbies"`
	Tone       string `json:"tone"`
	Region     string `json:"region"`
}

func (req CreateCardRequest) toForm() card.Form {
	return card.Form{
		SenderName: req.SenderName,
		Name:       req.Name,
		Relation:   req.Relation,
		Hobbies:    req.Hobbies,
		Tone:       req.Tone,
		Region:     req.Region,
	}
}

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	generator card.Generator
	logger    *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(generator card.Generator, logger *slog.Logger) *CardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		generator: generator,
		logger:    logger.With("component", "card_handler"),
	}
}

// ShowForm handles GET / requests.
func (h *CardHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, struct{ Tones []string }{Tones: card.Tones}); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to render form", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to write form page", "error", err)
	}
}

// CreateCard handles POST /api/cards requests. The body may be JSON or
// form-encoded; the response is the card PDF as an attachment.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest

	switch {
	case shared.IsJSON(r):
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	case shared.IsForm(r):
		if err := shared.ParseForm(w, r); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
		req = CreateCardRequest{
			SenderName: r.PostFormValue("sender_name"),
			Name:       r.PostFormValue("name"),
			Relation:   r.PostFormValue("relation"),
			Hobbies:    r.PostFormValue("hobbies"),
			Tone:       r.PostFormValue("tone"),
			Region:     r.PostFormValue("region"),
		}
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusUnsupportedMediaType,
			"Content-Type must be application/json or form data", shared.ErrUnsupportedMediaType)
		return
	}

	generated, err := h.generator.Generate(r.Context(), req.toForm())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), card.UserMessage(err), err)
		return
	}

	h.logger.InfoContext(r.Context(), "Card delivered",
		"trace_id", shared.GetTraceID(r.Context()),
		"run_id", generated.RunID,
		"file_name", generated.FileName)

	shared.RespondWithAttachment(w, r, "application/pdf", generated.FileName, generated.PDF)
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write health check response", "error", err)
	}
}
