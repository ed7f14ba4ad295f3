package dashboard

import (
	"strings"

	"customer-insights/internal/model"
	"customer-insights/internal/service"
)

func showRegister(s State) State {
	if s.View != ViewAuth || s.Auth.Phase == PhaseSubmitting {
		return s
	}
	s.Epoch++
	s.View = ViewRegister
	s.Register = RegisterState{}
	return s
}

func showLogin(s State) State {
	if s.View != ViewRegister || s.Register.Phase == PhaseSubmitting {
		return s
	}
	s.Epoch++
	s.View = ViewAuth
	s.Auth.Phase = PhaseIdle
	s.Auth.Message = ""
	return s
}

func registerSubmitted(s State, e RegisterSubmitted) (State, Effect) {
	if s.View != ViewRegister || s.Register.Phase == PhaseSubmitting {
		return s, none
	}
	s.Register.Email = strings.TrimSpace(e.Email)
	s.Register.FullName = strings.TrimSpace(e.FullName)

	if s.Register.Email == "" || s.Register.FullName == "" || e.Password == "" {
		s.Register.Phase = PhaseFailed
		s.Register.Message = "Please fill in every field."
		return s.withNotice(LevelWarning, "Missing fields", s.Register.Message), none
	}
	if e.Password != e.Confirm {
		s.Register.Phase = PhaseFailed
		s.Register.Message = "Please make sure both passwords are the same."
		return s.withNotice(LevelWarning, "Passwords do not match", s.Register.Message), none
	}

	s.Epoch++
	s.Register.Phase = PhaseSubmitting
	s.Register.Message = ""
	return s, Effect{
		Kind:  EffRegister,
		Epoch: s.Epoch,
		Register: model.RegisterRequest{
			Email:           s.Register.Email,
			FullName:        s.Register.FullName,
			Password:        e.Password,
			ConfirmPassword: e.Confirm,
		},
	}
}

func registerFinished(s State, e RegisterFinished) State {
	if e.Epoch != s.Epoch || s.Register.Phase != PhaseSubmitting {
		return s
	}
	if e.Err != nil {
		s.Register.Phase = PhaseFailed
		s.Register.Message = service.Message(e.Err)
		switch service.KindOf(e.Err) {
		case service.KindValidation:
			return s.withNotice(LevelWarning, "Validation error", s.Register.Message)
		case service.KindNetwork:
			return s.withNotice(LevelError, "Network error", s.Register.Message)
		}
		return s.withNotice(LevelError, "Registration error", s.Register.Message)
	}

	email := s.Register.Email
	s.Register = RegisterState{Phase: PhaseSuccess}
	s.View = ViewAuth
	s.Auth = AuthState{Username: email}
	return s.withNotice(LevelSuccess, "Registration complete", e.Message)
}
