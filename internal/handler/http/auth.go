package http

import (
	"encoding/json"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/roplabs/payroll-backend-go/internal/domain/user"
	"github.com/roplabs/payroll-backend-go/internal/handler/http/response"
	jwtpkg "github.com/roplabs/payroll-backend-go/internal/pkg/jwt"
)

type AuthHandler struct {
	userRepo   user.Repository
	jwtService jwtpkg.Service
}

func NewAuthHandler(userRepo user.Repository, jwtService jwtpkg.Service) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, jwtService: jwtService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string            `json:"access_token"`
	ExpiresAt   int64             `json:"expires_at"`
	User        user.UserResponse `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	u, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err != nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}
	if !u.IsActive {
		response.HandleError(w, user.ErrUserInactive)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	access, expiresAt, err := h.jwtService.GenerateAccessToken(u.ID, u.Email, u.IsManager)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	refresh, refreshExpiresAt, err := h.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, h.jwtService.RefreshTokenCookie(refresh, refreshExpiresAt))
	response.Success(w, tokenResponse{
		AccessToken: access,
		ExpiresAt:   expiresAt,
		User:        user.ToResponse(u),
	})
}

func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		response.Unauthorized(w, "Missing refresh token")
		return
	}

	token, err := h.jwtService.JWTAuth().Decode(cookie.Value)
	if err != nil || jwt.Validate(token) != nil {
		response.Unauthorized(w, "Invalid refresh token")
		return
	}

	claims, err := token.AsMap(r.Context())
	if err != nil {
		response.Unauthorized(w, "Invalid refresh token")
		return
	}
	tokenType, _ := claims["type"].(string)
	userID, _ := claims["user_id"].(string)
	if tokenType != "refresh" || userID == "" {
		response.Unauthorized(w, "Invalid refresh token")
		return
	}

	u, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil || !u.IsActive {
		response.Unauthorized(w, "Unknown user")
		return
	}

	access, expiresAt, err := h.jwtService.GenerateAccessToken(u.ID, u.Email, u.IsManager)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tokenResponse{
		AccessToken: access,
		ExpiresAt:   expiresAt,
		User:        user.ToResponse(u),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	expired := h.jwtService.RefreshTokenCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	response.SuccessWithMessage(w, "Logged out", nil)
}
