package dashboard

import (
	"customer-insights/internal/model"
	"customer-insights/internal/service"
	"customer-insights/internal/session"
)

// Event is anything that can change State. Completion events carry the epoch
// captured when their request was issued.
type Event interface{ event() }

type (
	Started       struct{ Session *session.Session }
	HealthChecked struct{ Result service.HealthResult }

	LoginSubmitted struct{ Username, Password string }
	LoginFinished  struct {
		Epoch   uint64
		Session session.Session
		Err     error
	}

	ShowRegister      struct{}
	ShowLogin         struct{}
	RegisterSubmitted struct{ Email, FullName, Password, Confirm string }
	RegisterFinished  struct {
		Epoch   uint64
		Message string
		Err     error
	}

	FileSelected    struct{ File model.SelectedFile }
	UploadRequested struct{}
	UploadFinished  struct {
		Epoch  uint64
		Result model.UploadResult
		Err    error
	}

	LogoutRequested  struct{}
	NoticesDismissed struct{}
)

func (Started) event()           {}
func (HealthChecked) event()     {}
func (LoginSubmitted) event()    {}
func (LoginFinished) event()     {}
func (ShowRegister) event()      {}
func (ShowLogin) event()         {}
func (RegisterSubmitted) event() {}
func (RegisterFinished) event()  {}
func (FileSelected) event()      {}
func (UploadRequested) event()   {}
func (UploadFinished) event()    {}
func (LogoutRequested) event()   {}
func (NoticesDismissed) event()  {}

type EffectKind int

const (
	EffNone EffectKind = iota
	EffLogin
	EffRegister
	EffUpload
	EffSaveSession
	EffClearSession
)

func (k EffectKind) String() string {
	return [...]string{"none", "login", "register", "upload", "save_session", "clear_session"}[k]
}

// Effect is the work Reduce asks its caller to do. Only the fields for Kind
// are set.
type Effect struct {
	Kind     EffectKind
	Epoch    uint64
	Username string
	Password string
	Register model.RegisterRequest
	File     model.SelectedFile
	Session  session.Session
}

var none = Effect{}
