package dashboard

import (
	"strings"

	"customer-insights/internal/service"
)

func loginSubmitted(s State, e LoginSubmitted) (State, Effect) {
	if s.View != ViewAuth || s.Auth.Phase == PhaseSubmitting {
		return s, none
	}
	username := strings.TrimSpace(e.Username)
	s.Auth.Username = username
	if username == "" || e.Password == "" {
		s.Auth.Phase = PhaseFailed
		s.Auth.Message = "Email and password are required."
		return s.withNotice(LevelWarning, "Missing credentials", s.Auth.Message), none
	}

	s.Epoch++
	s.Auth.Phase = PhaseSubmitting
	s.Auth.Message = ""
	return s, Effect{Kind: EffLogin, Epoch: s.Epoch, Username: username, Password: e.Password}
}

func loginFinished(s State, e LoginFinished) (State, Effect) {
	if e.Epoch != s.Epoch || s.Auth.Phase != PhaseSubmitting {
		return s, none
	}
	if e.Err != nil {
		s.Auth.Phase = PhaseFailed
		s.Auth.Message = service.Message(e.Err)
		title := "Sign-in error"
		if service.KindOf(e.Err) == service.KindNetwork {
			title = "Network error"
		}
		return s.withNotice(LevelError, title, s.Auth.Message), none
	}

	sess := e.Session
	s.Session = &sess
	s.Auth = AuthState{Phase: PhaseSuccess, Username: s.Auth.Username}
	s.View = ViewDashboard
	s.Board = BoardState{Health: s.Board.Health}
	s = s.withNotice(LevelSuccess, "Welcome!", "Signed in successfully.")
	return s, Effect{Kind: EffSaveSession, Session: sess}
}
