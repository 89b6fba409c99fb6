package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/service"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
)

const maxContactBody = 1 << 20

// ContactHandler serves the contact form endpoint.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: logger}
}

// ContactResponse is the body of every POST /email response.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Submit handles POST /email. The form may be sent url-encoded, as
// multipart/form-data or as JSON.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	msg, err := readContactMessage(w, r)
	if err != nil {
		httputil.RequestLogger(r, h.logger).WarnContext(r.Context(), "unreadable contact form",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusBadRequest, ContactResponse{Error: service.MsgContactFieldsRequired})
		return
	}

	id, err := h.service.Submit(r.Context(), msg)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Status == http.StatusBadRequest {
			httputil.WriteJSON(w, http.StatusBadRequest, ContactResponse{Error: appErr.Message})
			return
		}

		httputil.RequestLogger(r, h.logger).ErrorContext(r.Context(), "contact form delivery failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, ContactResponse{Error: service.MsgContactSendFailed})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ContactResponse{
		Success: true,
		Message: service.MsgContactSent,
		ID:      id,
	})
}

func readContactMessage(w http.ResponseWriter, r *http.Request) (domain.ContactMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactBody)

	var msg domain.ContactMessage
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			return msg, err
		}
		return msg, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxContactBody); err != nil {
			return msg, err
		}
	default:
		if err := r.ParseForm(); err != nil {
			return msg, err
		}
	}

	msg.Name = r.PostFormValue("name")
	msg.Email = r.PostFormValue("email")
	msg.Message = r.PostFormValue("message")
	return msg, nil
}
