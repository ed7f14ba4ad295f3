package handler

import (
	"time"

	"customer-insights/internal/dashboard"
	"customer-insights/internal/model"
)

// viewState is the render model shared by the HTML page and /api/state. It
// never carries the access token.
type viewState struct {
	View          string                `json:"view"`
	Authenticated bool                  `json:"authenticated"`
	ExpiresAt     *time.Time            `json:"session_expires_at,omitempty"`
	Busy          bool                  `json:"busy"`
	BackendReady  bool                  `json:"backend_ready"`
	BackendURL    string                `json:"backend_url"`
	CanUpload     bool                  `json:"can_upload"`
	Auth          authView              `json:"auth"`
	Register      registerView          `json:"register"`
	File          *fileView             `json:"file,omitempty"`
	Upload        string                `json:"upload"`
	Status        string                `json:"status,omitempty"`
	Message       string                `json:"message,omitempty"`
	Rows          []model.Row           `json:"rows"`
	Distribution  []model.CategoryCount `json:"distribution"`
	Notices       []noticeView          `json:"notices"`
}

type authView struct {
	Phase    string `json:"phase"`
	Username string `json:"username,omitempty"`
	Message  string `json:"message,omitempty"`
}

type registerView struct {
	Phase    string `json:"phase"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Message  string `json:"message,omitempty"`
}

type fileView struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

type noticeView struct {
	Level string `json:"level"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func newViewState(st dashboard.State, backendURL string) viewState {
	v := viewState{
		View:          st.View.String(),
		Authenticated: st.Authenticated(),
		Busy:          st.Busy(),
		BackendReady:  st.Board.BackendReady(),
		BackendURL:    backendURL,
		CanUpload:     st.Board.CanUpload(),
		Auth:          authView{Phase: st.Auth.Phase.String(), Username: st.Auth.Username, Message: st.Auth.Message},
		Register:      registerView{Phase: st.Register.Phase.String(), Email: st.Register.Email, FullName: st.Register.FullName, Message: st.Register.Message},
		Upload:        st.Board.Upload.String(),
		Status:        st.Board.Status,
		Rows:          []model.Row{},
		Distribution:  []model.CategoryCount{},
		Notices:       make([]noticeView, 0, len(st.Notices)),
	}
	if st.Session != nil {
		if exp, ok := st.Session.ExpiresAt(); ok {
			v.ExpiresAt = &exp
		}
	}
	if f := st.Board.File; f != nil {
		v.File = &fileView{Name: f.Name, ContentType: f.ContentType, Size: f.Size()}
	}
	if r := st.Board.Result; r != nil {
		v.Message = r.Message
		if r.Rows != nil {
			v.Rows = r.Rows
		}
	}
	if st.Board.Distribution != nil {
		v.Distribution = st.Board.Distribution
	}
	for _, n := range st.Notices {
		v.Notices = append(v.Notices, noticeView{Level: string(n.Level), Title: n.Title, Text: n.Text})
	}
	return v
}
