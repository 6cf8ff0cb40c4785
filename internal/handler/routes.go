package handler

import (
	"net/http"

	"github.com/msomdec/messagely/internal/service"
)

// Tokens signs and validates bearer tokens.
type Tokens interface {
	service.TokenIssuer
	TokenValidator
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, identity *service.IdentityService, directory *service.MessageDirectory, resolver *service.ProfileResolver, tokens Tokens) {
	authHandler := NewAuthHandler(identity, tokens)
	userHandler := NewUserHandler(identity, directory, resolver)
	messageHandler := NewMessageHandler(directory, resolver)

	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(tokens, h)
	}
	self := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(tokens, RequireCorrectUser(h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)

	mux.Handle("GET /users", authed(userHandler.HandleList))
	mux.Handle("GET /users/{username}", self(userHandler.HandleGet))
	mux.Handle("GET /users/{username}/to", self(userHandler.HandleMessagesTo))
	mux.Handle("GET /users/{username}/from", self(userHandler.HandleMessagesFrom))

	mux.Handle("POST /messages", authed(messageHandler.HandleSend))
	mux.Handle("GET /messages/{id}", authed(messageHandler.HandleGet))
	mux.Handle("POST /messages/{id}/read", authed(messageHandler.HandleMarkRead))
}
