// Package dashboard holds the client state machine: a pure reducer over the
// auth, register and dashboard views, and the App that runs its effects.
package dashboard

import (
	"customer-insights/internal/model"
	"customer-insights/internal/service"
	"customer-insights/internal/session"
)

type View int

const (
	ViewAuth View = iota
	ViewRegister
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewRegister:
		return "register"
	case ViewDashboard:
		return "dashboard"
	}
	return "auth"
}

// Phase is the form state shared by the auth and register views. Failed
// accepts input like Idle and carries the last error message.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	return [...]string{"idle", "submitting", "success", "failed"}[p]
}

type AuthState struct {
	Phase    Phase
	Username string
	Message  string
}

type RegisterState struct {
	Phase    Phase
	Email    string
	FullName string
	Message  string
}

type UploadPhase int

const (
	UploadIdle UploadPhase = iota
	Uploading
	UploadDone
	UploadError
)

func (p UploadPhase) String() string {
	return [...]string{"idle", "uploading", "done", "error"}[p]
}

// BoardState is the dashboard view: backend readiness, the selected file,
// the upload and what it produced.
type BoardState struct {
	Health       service.HealthResult
	File         *model.SelectedFile
	Upload       UploadPhase
	Status       string
	Result       *model.UploadResult
	Distribution []model.CategoryCount
}

func (b BoardState) BackendReady() bool { return b.Health.Ready }

// CanUpload mirrors the enabled state of the upload control.
func (b BoardState) CanUpload() bool {
	return b.Health.Ready && b.File != nil && b.Upload != Uploading
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level Level
	Title string
	Text  string
}

// State is everything the render step needs. Reduce never mutates a State in
// place, so a copy can be read without holding the App's lock.
type State struct {
	View          View
	Session       *session.Session
	Auth          AuthState
	Register      RegisterState
	Board         BoardState
	Notices       []Notice
	Epoch         uint64
	CategoryField string
}

func Initial(categoryField string) State {
	return State{View: ViewAuth, CategoryField: categoryField}
}

func (s State) Authenticated() bool { return s.Session != nil }

// Busy is true while a request started by the user is in flight.
func (s State) Busy() bool {
	return s.Auth.Phase == PhaseSubmitting ||
		s.Register.Phase == PhaseSubmitting ||
		s.Board.Upload == Uploading
}

func (s State) withNotice(level Level, title, text string) State {
	notices := make([]Notice, len(s.Notices), len(s.Notices)+1)
	copy(notices, s.Notices)
	s.Notices = append(notices, Notice{Level: level, Title: title, Text: text})
	return s
}
