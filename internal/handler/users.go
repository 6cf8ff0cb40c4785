package handler

import (
	"net/http"

	"github.com/msomdec/messagely/internal/service"
)

// UserHandler serves user listings, profiles and per-user message lists.
type UserHandler struct {
	identity  *service.IdentityService
	directory *service.MessageDirectory
	resolver  *service.ProfileResolver
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity *service.IdentityService, directory *service.MessageDirectory, resolver *service.ProfileResolver) *UserHandler {
	return &UserHandler{identity: identity, directory: directory, resolver: resolver}
}

// HandleList returns every user's summary.
// GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.identity.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toSummaryDTOs(users)})
}

// HandleGet returns the caller's own profile.
// GET /users/{username}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.identity.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toProfileDTO(profile)})
}

// HandleMessagesTo lists messages received by the user, each with its sender.
// GET /users/{username}/to
func (h *UserHandler) HandleMessagesTo(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	msgs, err := h.directory.MessagesTo(r.Context(), username)
	if err != nil {
		writeServiceError(w, "list messages to", err)
		return
	}
	resolved, err := h.resolver.ResolveIncoming(r.Context(), msgs, username)
	if err != nil {
		writeServiceError(w, "resolve incoming", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": toMessageDTOs(resolved)})
}

// HandleMessagesFrom lists messages sent by the user, each with its recipient.
// GET /users/{username}/from
func (h *UserHandler) HandleMessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	msgs, err := h.directory.MessagesFrom(r.Context(), username)
	if err != nil {
		writeServiceError(w, "list messages from", err)
		return
	}
	resolved, err := h.resolver.ResolveOutgoing(r.Context(), msgs, username)
	if err != nil {
		writeServiceError(w, "resolve outgoing", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": toMessageDTOs(resolved)})
}
