package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/puri-adityakumar/yellow-ai/internal/auth"
	"github.com/puri-adityakumar/yellow-ai/internal/core"
	"github.com/puri-adityakumar/yellow-ai/internal/store"
)

type APIHandler struct {
	chatService    *core.ChatService
	projectService *core.ProjectService
	historyService *core.HistoryService
}

func NewAPIHandler(cs *core.ChatService, ps *core.ProjectService, hs *core.HistoryService) *APIHandler {
	return &APIHandler{
		chatService:    cs,
		projectService: ps,
		historyService: hs,
	}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, kindUnauthenticated, "Invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "Email and password are required")
		return
	}

	existing, err := h.chatService.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error checking user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to create user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Email is already registered")
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password for user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to process password")
		return
	}

	user, err := h.chatService.CreateUser(req.Email, hashedPassword)
	if err != nil {
		log.Printf("Error creating user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "Email and password are required")
		return
	}

	user, err := h.chatService.GetUserByEmail(req.Email)
	if err != nil {
		log.Printf("Error getting user %s: %v", req.Email, err)
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "Invalid credentials")
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, kindUnauthenticated, "Invalid credentials")
		return
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		log.Printf("Error generating JWT for user %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, kindInternal, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type CreateChatRequest struct {
	FirstMessage *string `json:"first_message,omitempty"`
	ProjectID    *string `json:"project_id,omitempty"`
}

type CreateChatResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages,omitempty"`
}

func (h *APIHandler) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req CreateChatRequest
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
			return
		}
	}

	chat, messages, err := h.chatService.CreateChat(r.Context(), userID, req.ProjectID, req.FirstMessage)
	if err != nil {
		writeServiceError(w, err, "Error creating chat for user "+userID)
		return
	}

	writeJSON(w, http.StatusCreated, CreateChatResponse{
		Chat:     chat,
		Messages: messages,
	})
}

type GetChatDetailsResponse struct {
	*store.Chat
	Messages []store.Message `json:"messages"`
}

func (h *APIHandler) GetChatDetailsHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChatDetails(chatID, userID)
	if err != nil {
		writeServiceError(w, err, "Error getting chat details for chat "+chatID)
		return
	}

	writeJSON(w, http.StatusOK, GetChatDetailsResponse{
		Chat:     chat,
		Messages: messages,
	})
}

type PostMessageRequest struct {
	Content string `json:"content"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	chatID := chi.URLParam(r, "chatID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "Message content cannot be empty")
		return
	}

	modelMessage, err := h.chatService.PostMessage(r.Context(), chatID, userID, req.Content)
	if err != nil {
		writeServiceError(w, err, "Error posting message to chat "+chatID)
		return
	}
	writeJSON(w, http.StatusOK, modelMessage)
}

func (h *APIHandler) DeleteChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	chatID := chi.URLParam(r, "chatID")

	if err := h.historyService.DeleteChat(userID, chatID); err != nil {
		writeServiceError(w, err, "Error deleting chat "+chatID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

type ReassignChatRequest struct {
	ChatID    string  `json:"chatId"`
	ProjectID *string `json:"projectId"` // null moves the chat out of any project
}

func (h *APIHandler) ReassignChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)

	var req ReassignChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}
	if req.ChatID == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "chatId is required")
		return
	}

	chat, err := h.historyService.Reassign(userID, req.ChatID, req.ProjectID)
	if err != nil {
		writeServiceError(w, err, "Error reassigning chat "+req.ChatID)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chat":    chat,
		"message": "Chat moved successfully",
	})
}

type FeedbackRequest struct {
	Negative bool `json:"negative"`
}

func (h *APIHandler) MessageFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(string)
	messageID := chi.URLParam(r, "messageID")

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "Invalid request body: "+err.Error())
		return
	}

	if err := h.chatService.SetMessageFeedback(messageID, userID, req.Negative); err != nil {
		writeServiceError(w, err, "Error setting feedback for message "+messageID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
