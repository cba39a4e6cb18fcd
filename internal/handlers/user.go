package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"DocControl/internal/auth"
	"DocControl/internal/config"
	"DocControl/internal/service"
)

// UserHandler обрабатывает регистрацию и вход.
type UserHandler struct {
	UserService *service.UserService
	Codec       *auth.TokenCodec
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, codec *auth.TokenCodec, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Codec: codec, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register создаёт пользователя и сразу выдаёт токен.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	if err != nil {
		h.Logger.Warnw("Register failed", "login", req.Login, "error", err)
		writeServiceError(w, err)
		return
	}

	h.issueToken(w, user.Login)
}

// Login проверяет учётные данные и выдаёт bearer-токен.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		h.Logger.Warnw("Login failed", "login", req.Login, "error", err)
		writeServiceError(w, err)
		return
	}

	h.issueToken(w, user.Login)
}

func (h *UserHandler) issueToken(w http.ResponseWriter, login string) {
	token, err := h.Codec.Issue(login, h.Config.TokenTTL)
	if err != nil {
		h.Logger.Errorw("token issue failed", "login", login, "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
