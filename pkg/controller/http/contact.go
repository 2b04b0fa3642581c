package http

import (
	"net/http"

	"github.com/ecoloop/ecoloop/pkg/domain/model"
	"github.com/ecoloop/ecoloop/pkg/usecase"
)

// ContactHandler handles the public contact form
type ContactHandler struct {
	contactUC usecase.ContactUseCase
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactUC usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{contactUC: contactUC}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// HandleContact stores and relays a contact form message
func (h *ContactHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	msg, err := h.contactUC.Send(r.Context(), model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusAccepted, map[string]string{
		"id":      msg.ID.String(),
		"message": "thank you, we will get back to you soon",
	})
}
