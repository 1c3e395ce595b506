package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/api",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		TwoFactorCode string `json:"two_factor_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, refreshToken, err := h.service.Login(req.Email, req.Password, req.TwoFactorCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidTwoFactorCode):
			writeJSONError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, ErrTwoFactorRequired):
			writeJSONError(w, http.StatusForbidden, err.Error())
		default:
			log.Println("Error during login:", err)
			writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
		}
		return
	}

	setRefreshCookie(w, refreshToken, time.Now().Add(defaultJWTRefreshDuration))
	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	accessToken, expiresAt, err := h.service.RefreshAccessToken(cookie.Value)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_at":   expiresAt,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("refresh_token"); err == nil {
		if err := h.service.Logout(cookie.Value); err != nil {
			log.Println("Error revoking refresh session:", err)
		}
	}
	setRefreshCookie(w, "", time.Unix(0, 0))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Logged out.",
	})
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	otpURI, secret, err := h.service.RegisterTwoFactor(userID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"otpauth_uri": otpURI,
		"secret":      secret,
	})
}

func (h *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.VerifyTwoFactorRegistration(userID, req.Code); err != nil {
		switch {
		case errors.Is(err, ErrInvalidTwoFactorCode), errors.Is(err, ErrUser2FANotEnabled):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		default:
			writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication enabled.",
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.DisableTwoFactor(userID); err != nil {
		writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication disabled.",
	})
}
