package httpapi

import (
	"net/http"

	"hospital-scheduler-api/internal/account"
	"hospital-scheduler-api/internal/middleware"
	"hospital-scheduler-api/internal/model"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type sessionResponse struct {
	UserID       string `json:"userId"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func session(s *account.Session) sessionResponse {
	return sessionResponse{
		UserID:       s.UserID,
		Name:         s.Name,
		Role:         string(s.Role),
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

func (a *api) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := a.accounts.Register(r.Context(), account.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		Role:      model.Role(req.Role),
		Specialty: req.Specialty,
	})
	if err != nil {
		a.accountError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session(s))
}

func (a *api) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := a.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		a.accountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session(s))
}

func (a *api) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := a.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		a.accountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session(s))
}

func (a *api) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.accounts.Logout(r.Context(), middleware.UserID(r.Context())); err != nil {
		a.accountError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
