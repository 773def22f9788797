package user

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"linkup/internal/api"
	"linkup/pkg/jwt"
)

type RestHandler struct {
	service *Service
	tokens  *jwt.JWT
	authMW  func(http.Handler) http.Handler
	log     *slog.Logger
}

func NewRestHandler(service *Service, tokens *jwt.JWT, authMW func(http.Handler) http.Handler, log *slog.Logger) *RestHandler {
	return &RestHandler{service: service, tokens: tokens, authMW: authMW, log: log}
}

func (h *RestHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/users/register", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/users/login", h.login).Methods(http.MethodPost)

	protected := r.PathPrefix("/api/users").Subrouter()
	protected.Use(h.authMW)
	protected.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	protected.HandleFunc("/me", h.me).Methods(http.MethodGet)
	protected.HandleFunc("/profile", h.updateProfile).Methods(http.MethodPut)
	protected.HandleFunc("/password", h.changePassword).Methods(http.MethodPut)
	protected.HandleFunc("/heartbeat", h.heartbeat).Methods(http.MethodPost)
}

func requesterID(r *http.Request) string {
	id, _ := api.UserID(r.Context())
	return id
}

func (h *RestHandler) register(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	newUser, err := h.service.Register(r.Context(), input)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateToken(newUser.ID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "User registered successfully",
		"token":   token,
	})
}

func (h *RestHandler) login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	loggedIn, err := h.service.Login(r.Context(), input)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateToken(loggedIn.ID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "User logged in successfully",
		"token":   token,
	})
}

// Tokens are stateless, so logout is an acknowledgement; clients discard the
// token.
func (h *RestHandler) logout(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
}

func (h *RestHandler) me(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Get(r.Context(), requesterID(r))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ToProfile(current))
}

func (h *RestHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var input UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), requesterID(r), input)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, ToProfile(updated))
}

func (h *RestHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var input ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	if err := h.service.ChangePassword(r.Context(), requesterID(r), input); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

func (h *RestHandler) heartbeat(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Touch(r.Context(), requesterID(r)); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Activity updated"})
}
