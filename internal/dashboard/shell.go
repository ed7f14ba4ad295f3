package dashboard

import (
	"fmt"

	"customer-insights/internal/service"
)

// Reduce applies ev to s. It is pure: the returned Effect describes any I/O
// the caller must perform.
func Reduce(s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case Started:
		return start(s, e), none
	case HealthChecked:
		return healthChecked(s, e), none
	case LoginSubmitted:
		return loginSubmitted(s, e)
	case LoginFinished:
		return loginFinished(s, e)
	case ShowRegister:
		return showRegister(s), none
	case ShowLogin:
		return showLogin(s), none
	case RegisterSubmitted:
		return registerSubmitted(s, e)
	case RegisterFinished:
		return registerFinished(s, e), none
	case FileSelected:
		return fileSelected(s, e), none
	case UploadRequested:
		return uploadRequested(s)
	case UploadFinished:
		return uploadFinished(s, e)
	case LogoutRequested:
		s = logout(s).withNotice(LevelInfo, "Signed out", "You have signed out successfully.")
		return s, Effect{Kind: EffClearSession}
	case NoticesDismissed:
		s.Notices = nil
		return s, none
	}
	return s, none
}

func start(s State, e Started) State {
	if e.Session != nil && e.Session.Valid() {
		sess := *e.Session
		s.Session = &sess
		s.View = ViewDashboard
		return s
	}
	s.Session = nil
	s.View = ViewAuth
	return s
}

func healthChecked(s State, e HealthChecked) State {
	s.Board.Health = e.Result
	if e.Result.Ready {
		return s
	}
	switch e.Result.Reason {
	case service.ReasonStatus:
		return s.withNotice(LevelError, "Connection error",
			fmt.Sprintf("The backend answered with status %d. Make sure the API is running at %s.", e.Result.Status, e.Result.URL))
	default:
		return s.withNotice(LevelError, "Network error",
			fmt.Sprintf("Could not reach the backend. Make sure the API is running at %s.", e.Result.URL))
	}
}

// logout drops the session and every piece of dashboard state. Backend
// readiness survives because it describes the backend, not the user. The
// epoch moves so in-flight responses are ignored.
func logout(s State) State {
	s.Epoch++
	s.Session = nil
	s.View = ViewAuth
	s.Auth = AuthState{}
	s.Register = RegisterState{}
	s.Board = BoardState{Health: s.Board.Health}
	return s
}
