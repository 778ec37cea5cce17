package handler

import (
	"encoding/json"
	"net/http"

	"github.com/slotdeck/server/internal/auth"
	"github.com/slotdeck/server/internal/domain"
	"github.com/slotdeck/server/internal/logger"
	"github.com/slotdeck/server/internal/session"
)

// SessionResponse describes the current session for clients
type SessionResponse struct {
	State    session.State    `json:"state"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Profile  *domain.Profile  `json:"profile,omitempty"`
}

func sessionSnapshot(svc session.Service) SessionResponse {
	identity, profile := svc.Current()
	return SessionResponse{
		State:    svc.State(),
		Identity: identity,
		Profile:  profile,
	}
}

// HandleGetSession returns the current session state
func HandleGetSession(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, sessionSnapshot(svc))
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin signs in with email and password. Credential validation
// happens in the session service so the per-field errors match the
// conversion flow.
func HandleLogin(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode login request", "error", err)
			http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
			return
		}

		if err := svc.Login(r.Context(), req.Email, req.Password); err != nil {
			log.Warn("Login failed", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Login succeeded")
		respondJSON(w, http.StatusOK, sessionSnapshot(svc))
	}
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// HandleRegister creates a new account and signs it in
func HandleRegister(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode register request", "error", err)
			http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
			return
		}

		if err := svc.Register(r.Context(), req.Email, req.Password, req.DisplayName); err != nil {
			log.Warn("Registration failed", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Registration succeeded")
		respondJSON(w, http.StatusCreated, sessionSnapshot(svc))
	}
}

type ProviderLoginRequest struct {
	Provider    string `json:"provider" validate:"required,max=50"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"max=100"`
	PhotoURL    string `json:"photo_url" validate:"max=500"`
}

// HandleLoginWithProvider signs in with a pre-verified federated assertion
func HandleLoginWithProvider(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ProviderLoginRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Provider login"); err != nil {
			return
		}

		assertion := auth.ProviderAssertion{
			Provider:    req.Provider,
			Subject:     req.Subject,
			Email:       req.Email,
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
		}

		if err := svc.LoginWithProvider(r.Context(), assertion); err != nil {
			log.Warn("Provider login failed", "provider", req.Provider, "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Provider login succeeded", "provider", req.Provider)
		respondJSON(w, http.StatusOK, sessionSnapshot(svc))
	}
}

// HandleLogout ends the current session
func HandleLogout(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := svc.Logout(r.Context()); err != nil {
			log.Error("Logout failed", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgLoggedOut})
	}
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleResetPassword requests a password reset email
func HandleResetPassword(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ResetPasswordRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Reset password"); err != nil {
			return
		}

		if err := svc.ResetPassword(r.Context(), req.Email); err != nil {
			log.Warn("Password reset failed", "error", err)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgPasswordResetSent})
	}
}

// HandleCreateGuestSession starts a guest session on this device
func HandleCreateGuestSession(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if _, _, err := svc.CreateGuestSession(r.Context()); err != nil {
			log.Warn("Guest session creation failed", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Guest session created")
		respondJSON(w, http.StatusCreated, sessionSnapshot(svc))
	}
}

type ConvertGuestRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// HandleConvertGuest upgrades the active guest session to a registered
// account, carrying the guest's level and XP over
func HandleConvertGuest(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ConvertGuestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode convert request", "error", err)
			http.Error(w, ErrMsgInvalidRequest, http.StatusBadRequest)
			return
		}

		if err := svc.ConvertGuestToUser(r.Context(), req.Email, req.Password, req.DisplayName); err != nil {
			log.Warn("Guest conversion failed", "error", err)
			respondServiceError(w, err)
			return
		}

		log.Info("Guest converted to registered account")
		respondJSON(w, http.StatusOK, sessionSnapshot(svc))
	}
}

type AddXPRequest struct {
	Amount int `json:"amount" validate:"gte=0,lte=1000000"`
}

// HandleAddXP awards XP to the active session's profile
func HandleAddXP(svc session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req AddXPRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Add XP"); err != nil {
			return
		}

		profile, err := svc.AddXP(r.Context(), req.Amount)
		if err != nil {
			log.Warn("XP award failed", "error", err, "amount", req.Amount)
			respondServiceError(w, err)
			return
		}

		log.Info("XP awarded", "amount", req.Amount, "total_xp", profile.XP, "level", profile.Level)
		respondJSON(w, http.StatusOK, profile)
	}
}
