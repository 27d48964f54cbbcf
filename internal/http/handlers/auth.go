package handlers

import (
	"errors"
	"net/http"
	"time"

	"server/internal/middleware"
	"server/internal/sms"
)

type sendSMSRequest struct {
	Phone string `json:"phone"`
}

type verifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type verifyCodeResponse struct {
	Token string `json:"token"`
	Phone string `json:"phone"`
}

// AuthSendSMS issues a verification code for the phone and hands it to the
// configured sender.
func (a *App) AuthSendSMS(w http.ResponseWriter, r *http.Request) {
	var req sendSMSRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !sms.ValidPhone(req.Phone) {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid phone number")
		return
	}

	code, err := a.Codes.Issue(r.Context(), req.Phone)
	if errors.Is(err, sms.ErrCooldown) {
		a.error(w, http.StatusTooManyRequests, "cooldown", "code recently sent, try again later")
		return
	}
	if err != nil {
		a.Logger.Error().Err(err).Msg("issue sms code failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to issue code")
		return
	}

	if err := a.Sender.Send(r.Context(), req.Phone, code); err != nil {
		a.Logger.Error().Err(err).Str("phone", req.Phone).Msg("sms delivery failed")
		a.error(w, http.StatusBadGateway, "sms_failure", "failed to deliver code")
		return
	}

	a.json(w, http.StatusOK, map[string]string{"message": "code sent"})
}

// AuthVerifyCode exchanges a valid code for an access token.
func (a *App) AuthVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !sms.ValidPhone(req.Phone) || req.Code == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "phone and code are required")
		return
	}

	err := a.Codes.Verify(r.Context(), req.Phone, req.Code)
	var mismatch *sms.MismatchError
	switch {
	case err == nil:
	case errors.Is(err, sms.ErrCodeExpired):
		a.error(w, http.StatusUnauthorized, "code_expired", "verification code expired, request a new one")
		return
	case errors.Is(err, sms.ErrTooManyAttempts):
		a.error(w, http.StatusUnauthorized, "too_many_attempts", "too many failed attempts, request a new code")
		return
	case errors.As(err, &mismatch):
		a.error(w, http.StatusUnauthorized, "code_mismatch", mismatch.Error())
		return
	default:
		a.Logger.Error().Err(err).Msg("verify sms code failed")
		a.error(w, http.StatusInternalServerError, "internal", "verification failed")
		return
	}

	ttl := a.TokenTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	token, err := middleware.SignToken(a.JWTSecret, req.Phone, ttl)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign token failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, verifyCodeResponse{Token: token, Phone: req.Phone})
}

// Profile returns the authenticated identity.
func (a *App) Profile(w http.ResponseWriter, r *http.Request) {
	phone := middleware.PhoneFromContext(r.Context())
	if phone == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"phone": phone})
}
