package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"automarket/internal/adapter/identity"
)

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "login", pageData{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	sess, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Sign-in failed. Please try again."
		if errors.Is(err, identity.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			msg = "Invalid email or password."
		} else {
			s.logger.Error("sign-in failed", zap.Error(err))
		}
		s.render(w, r, status, "login", pageData{Error: msg})
		return
	}

	s.setSessionCookie(w, sess.AccessToken)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if sessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "register", pageData{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		s.render(w, r, http.StatusBadRequest, "register", pageData{Error: "Email and password are required."})
		return
	}

	err := s.auth.SignUp(r.Context(), email, password)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Registration failed. Please try again."
		if errors.Is(err, identity.ErrEmailTaken) {
			status = http.StatusConflict
			msg = "An account with this email already exists."
		} else {
			s.logger.Error("sign-up failed", zap.Error(err))
		}
		s.render(w, r, status, "register", pageData{Error: msg})
		return
	}

	// The identity provider sends the confirmation email itself.
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := sessionFrom(r.Context()); sess != nil {
		if err := s.auth.SignOut(r.Context(), sess.AccessToken); err != nil {
			s.logger.Warn("remote sign-out failed", zap.Error(err))
		}
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
