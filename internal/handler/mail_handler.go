package handler

import (
	"context"
	"errors"
	"net/http"

	"skinker-shop/internal/model"
	"skinker-shop/internal/notification"

	"github.com/rs/zerolog"
)

// MailTester sends a diagnostic email.
type MailTester interface {
	SendTest(ctx context.Context) (string, error)
}

// MailHandler exposes mail diagnostics.
type MailHandler struct {
	tester MailTester
	logger zerolog.Logger
}

// NewMailHandler creates a new mail handler.
func NewMailHandler(tester MailTester, logger zerolog.Logger) *MailHandler {
	return &MailHandler{
		tester: tester,
		logger: logger.With().Str("handler", "mail").Logger(),
	}
}

// TestEmailResponse is returned when the diagnostic email was accepted.
type TestEmailResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// TestEmail handles GET /api/test-email requests.
func (h *MailHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	id, err := h.tester.SendTest(r.Context())
	if err != nil {
		if errors.Is(err, notification.ErrDisabled) {
			writeError(w, http.StatusBadRequest, model.MsgMailDisabled, h.logger)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, TestEmailResponse{Success: true, ID: id})
}
