package handler

import (
	"net/http"

	"github.com/msomdec/messagely/internal/service"
)

// MessageHandler sends, reads and acknowledges individual messages.
type MessageHandler struct {
	directory *service.MessageDirectory
	resolver  *service.ProfileResolver
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(directory *service.MessageDirectory, resolver *service.ProfileResolver) *MessageHandler {
	return &MessageHandler{directory: directory, resolver: resolver}
}

// HandleSend stores a message from the authenticated user.
// POST /messages
// Request:  {"toUsername":"...","body":"..."}
// Response: 201 {"message": {...}}
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToUsername string `json:"toUsername"`
		Body       string `json:"body"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	msg, err := h.directory.Send(r.Context(), UsernameFromContext(r.Context()), service.SendInput{
		ToUsername: req.ToUsername,
		Body:       req.Body,
	})
	if err != nil {
		writeServiceError(w, "send message", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": toStoredMessageDTO(msg)})
}

// HandleGet returns one message with both parties resolved. Only the
// sender and recipient may read it.
// GET /messages/{id}
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	msg, err := h.directory.Get(r.Context(), r.PathValue("id"), UsernameFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "get message", err)
		return
	}
	resolved, err := h.resolver.ResolveBoth(r.Context(), *msg)
	if err != nil {
		writeServiceError(w, "resolve message", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": toMessageDTO(*resolved)})
}

// HandleMarkRead marks a message read on behalf of its recipient.
// POST /messages/{id}/read
// Response: {"message": {"id":"...","readAt":"..."}}
func (h *MessageHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.directory.MarkRead(r.Context(), r.PathValue("id"), UsernameFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, "mark message read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": map[string]any{
		"id":     msg.ID,
		"readAt": formatOptional(msg.ReadAt),
	}})
}
