package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"linkup/internal/api"
)

type RestHandler struct {
	service *Service
	authMW  func(http.Handler) http.Handler
}

func NewRestHandler(service *Service, authMW func(http.Handler) http.Handler) *RestHandler {
	return &RestHandler{service: service, authMW: authMW}
}

func (h *RestHandler) Register(r *mux.Router) {
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(h.authMW)
	protected.HandleFunc("/contacts", h.contacts).Methods(http.MethodGet)
	protected.HandleFunc("/chats", h.listChats).Methods(http.MethodGet)
	protected.HandleFunc("/chats/create", h.createChat).Methods(http.MethodPost)
	protected.HandleFunc("/chats/{chatId}/messages", h.listMessages).Methods(http.MethodGet)
	protected.HandleFunc("/chats/{chatId}/messages/mark_as_read", h.markAsRead).Methods(http.MethodPost)
	protected.HandleFunc("/chats/{chatId}/new_message", h.newMessage).Methods(http.MethodPost)
}

func requesterID(r *http.Request) string {
	id, _ := api.UserID(r.Context())
	return id
}

func (h *RestHandler) contacts(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.Contacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"users": profiles})
}

func (h *RestHandler) listChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.ListChats(r.Context(), requesterID(r))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *RestHandler) createChat(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ContactID string `json:"contactId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	requester := requesterID(r)
	created, isNew, err := h.service.CreateOrGetChat(r.Context(), requester, input.ContactID)
	if err != nil {
		api.WriteError(w, err)
		return
	}

	status := http.StatusOK
	message := "Chat already exists"
	if isNew {
		status = http.StatusCreated
		message = "Chat created successfully"
	}
	api.WriteJSON(w, status, map[string]any{
		"message": message,
		"chat":    ToChatView(created, requester),
		"isNew":   isNew,
	})
}

func (h *RestHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListMessages(r.Context(), mux.Vars(r)["chatId"], requesterID(r))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *RestHandler) markAsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.MarkRead(r.Context(), mux.Vars(r)["chatId"], requesterID(r)); err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}

func (h *RestHandler) newMessage(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
		return
	}

	requester := requesterID(r)
	posted, err := h.service.PostMessage(r.Context(), mux.Vars(r)["chatId"], requester, input.Content)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": ToMessageView(posted, requester),
	})
}
