package web

import (
	"net/http"

	"go.uber.org/zap"
)

func (s *Server) handleUnsubscribeForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "unsubscribe", pageData{})
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if r.FormValue("confirm") != "yes" {
		s.render(w, r, http.StatusBadRequest, "unsubscribe", pageData{Error: "Please confirm the account deletion."})
		return
	}

	if err := s.accounts.DeleteAccount(r.Context(), *sess); err != nil {
		s.logger.Error("account deletion failed", zap.String("user_id", sess.UserID), zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "unsubscribe", pageData{Error: "Account deletion failed. Nothing was removed; please try again."})
		return
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
