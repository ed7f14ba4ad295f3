package dashboard

import (
	"errors"
	"net/http"
	"testing"

	"customer-insights/internal/model"
	"customer-insights/internal/service"
	"customer-insights/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const field = "potential_category"

var (
	readyHealth = service.HealthResult{Ready: true, URL: "http://api"}
	sess        = session.Session{AccessToken: "tok", TokenType: "bearer"}
	csvFile     = model.SelectedFile{Name: "clients.csv", ContentType: "text/csv", Data: []byte("a,b\n1,2\n")}
)

// signedIn is a dashboard with a ready backend and a selected file.
func signedIn(t *testing.T) State {
	t.Helper()
	s, _ := Reduce(Initial(field), Started{Session: &sess})
	s, _ = Reduce(s, HealthChecked{Result: readyHealth})
	s, _ = Reduce(s, FileSelected{File: csvFile})
	require.Equal(t, ViewDashboard, s.View)
	require.NotNil(t, s.Board.File)
	return s
}

func lastNotice(t *testing.T, s State) Notice {
	t.Helper()
	require.NotEmpty(t, s.Notices)
	return s.Notices[len(s.Notices)-1]
}

func TestStartedPicksView(t *testing.T) {
	s, eff := Reduce(Initial(field), Started{})
	assert.Equal(t, ViewAuth, s.View)
	assert.Equal(t, EffNone, eff.Kind)

	s, _ = Reduce(Initial(field), Started{Session: &sess})
	assert.Equal(t, ViewDashboard, s.View)
	assert.True(t, s.Authenticated())

	s, _ = Reduce(Initial(field), Started{Session: &session.Session{}})
	assert.Equal(t, ViewAuth, s.View)
}

func TestHealthStatusFailureIsNotNetwork(t *testing.T) {
	s, _ := Reduce(Initial(field), Started{Session: &sess})
	s, _ = Reduce(s, HealthChecked{Result: service.HealthResult{Reason: service.ReasonStatus, Status: 503, URL: "http://api"}})

	assert.False(t, s.Board.BackendReady())
	n := lastNotice(t, s)
	assert.Equal(t, "Connection error", n.Title)
	assert.Contains(t, n.Text, "503")

	s, _ = Reduce(s, FileSelected{File: csvFile})
	assert.False(t, s.Board.CanUpload())
	s, eff := Reduce(s, UploadRequested{})
	assert.Equal(t, EffNone, eff.Kind)
	assert.Equal(t, "Backend unavailable", lastNotice(t, s).Title)
}

func TestLoginSuccess(t *testing.T) {
	s, eff := Reduce(Initial(field), LoginSubmitted{Username: " ana@example.com ", Password: "pw"})
	require.Equal(t, EffLogin, eff.Kind)
	assert.Equal(t, "ana@example.com", eff.Username)
	assert.Equal(t, s.Epoch, eff.Epoch)
	assert.Equal(t, PhaseSubmitting, s.Auth.Phase)
	assert.True(t, s.Busy())

	again, eff2 := Reduce(s, LoginSubmitted{Username: "x", Password: "y"})
	assert.Equal(t, EffNone, eff2.Kind)
	assert.Equal(t, s.Epoch, again.Epoch)

	s, eff = Reduce(s, LoginFinished{Epoch: eff.Epoch, Session: sess})
	assert.Equal(t, EffSaveSession, eff.Kind)
	assert.Equal(t, sess, eff.Session)
	assert.Equal(t, ViewDashboard, s.View)
	assert.Equal(t, PhaseSuccess, s.Auth.Phase)
	assert.Equal(t, &sess, s.Session)

	s, eff = Reduce(s, LoginFinished{Epoch: s.Epoch, Session: sess})
	assert.Equal(t, EffNone, eff.Kind, "a second completion must not save again")
}

func TestLoginFailureKeepsUsername(t *testing.T) {
	s, eff := Reduce(Initial(field), LoginSubmitted{Username: "ana", Password: "bad"})
	s, eff = Reduce(s, LoginFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindAuth, Status: 401, Message: "Incorrect email or password"}})

	assert.Equal(t, EffNone, eff.Kind)
	assert.Equal(t, ViewAuth, s.View)
	assert.Equal(t, PhaseFailed, s.Auth.Phase)
	assert.Equal(t, "ana", s.Auth.Username)
	assert.Equal(t, "Incorrect email or password", s.Auth.Message)
	assert.Nil(t, s.Session)
	assert.Equal(t, "Sign-in error", lastNotice(t, s).Title)

	_, eff = Reduce(s, LoginSubmitted{Username: "ana", Password: "good"})
	assert.Equal(t, EffLogin, eff.Kind)
}

func TestLoginNetworkFailure(t *testing.T) {
	s, eff := Reduce(Initial(field), LoginSubmitted{Username: "ana", Password: "pw"})
	s, _ = Reduce(s, LoginFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindNetwork, Message: "Could not connect to the server. Check your connection."}})
	assert.Equal(t, PhaseFailed, s.Auth.Phase)
	assert.Equal(t, "Network error", lastNotice(t, s).Title)
}

func TestLoginRequiresCredentials(t *testing.T) {
	s, eff := Reduce(Initial(field), LoginSubmitted{Username: "  ", Password: "pw"})
	assert.Equal(t, EffNone, eff.Kind)
	assert.Equal(t, LevelWarning, lastNotice(t, s).Level)
}

func TestRegisterPasswordMismatchIssuesNoRequest(t *testing.T) {
	s, _ := Reduce(Initial(field), ShowRegister{})
	require.Equal(t, ViewRegister, s.View)

	s, eff := Reduce(s, RegisterSubmitted{Email: "ana@example.com", FullName: "Ana", Password: "a", Confirm: "b"})
	assert.Equal(t, EffNone, eff.Kind)
	assert.Equal(t, PhaseFailed, s.Register.Phase)
	assert.Equal(t, "Passwords do not match", lastNotice(t, s).Title)
	assert.Equal(t, "ana@example.com", s.Register.Email)
}

func TestRegisterSuccessReturnsToLogin(t *testing.T) {
	s, _ := Reduce(Initial(field), ShowRegister{})
	s, eff := Reduce(s, RegisterSubmitted{Email: "ana@example.com", FullName: "Ana Ruiz", Password: "pw", Confirm: "pw"})
	require.Equal(t, EffRegister, eff.Kind)
	assert.Equal(t, model.RegisterRequest{Email: "ana@example.com", FullName: "Ana Ruiz", Password: "pw", ConfirmPassword: "pw"}, eff.Register)

	blocked, _ := Reduce(s, ShowLogin{})
	assert.Equal(t, ViewRegister, blocked.View)

	s, _ = Reduce(s, RegisterFinished{Epoch: eff.Epoch, Message: "User created"})
	assert.Equal(t, ViewAuth, s.View)
	assert.Equal(t, "ana@example.com", s.Auth.Username)
	n := lastNotice(t, s)
	assert.Equal(t, LevelSuccess, n.Level)
	assert.Equal(t, "User created", n.Text)
}

func TestRegisterValidationError(t *testing.T) {
	s, _ := Reduce(Initial(field), ShowRegister{})
	s, eff := Reduce(s, RegisterSubmitted{Email: "x", FullName: "X", Password: "p", Confirm: "p"})
	s, _ = Reduce(s, RegisterFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindValidation, Status: 422, Message: "value is not a valid email address"}})

	assert.Equal(t, ViewRegister, s.View)
	assert.Equal(t, PhaseFailed, s.Register.Phase)
	n := lastNotice(t, s)
	assert.Equal(t, LevelWarning, n.Level)
	assert.Equal(t, "value is not a valid email address", n.Text)
}

func TestFileTypeGuard(t *testing.T) {
	s := signedIn(t)
	s, _ = Reduce(s, FileSelected{File: model.SelectedFile{Name: "doc.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}})

	assert.Nil(t, s.Board.File)
	assert.Nil(t, s.Board.Result)
	assert.Empty(t, s.Board.Distribution)
	assert.Equal(t, "File type not allowed", lastNotice(t, s).Title)

	_, eff := Reduce(s, UploadRequested{})
	assert.Equal(t, EffNone, eff.Kind)

	s = signedIn(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	s, _ = Reduce(s, FileSelected{File: model.SelectedFile{Name: "photo.csv", Data: png}})
	assert.Nil(t, s.Board.File, "a .csv name does not make an image acceptable")
	assert.Equal(t, "File type not allowed", lastNotice(t, s).Title)
}

func TestFileSelectionSniffsUndeclaredType(t *testing.T) {
	s := signedIn(t)
	s, _ = Reduce(s, FileSelected{File: model.SelectedFile{Name: "clients.xlsx", ContentType: "application/octet-stream"}})
	require.NotNil(t, s.Board.File)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", s.Board.File.ContentType)
}

func TestUploadSuccessAggregates(t *testing.T) {
	s := signedIn(t)
	s, eff := Reduce(s, UploadRequested{})
	require.Equal(t, EffUpload, eff.Kind)
	assert.Equal(t, sess, eff.Session)
	assert.Equal(t, csvFile.Name, eff.File.Name)
	assert.False(t, s.Board.CanUpload())

	s, eff2 := Reduce(s, UploadRequested{})
	assert.Equal(t, EffNone, eff2.Kind)
	assert.Equal(t, "Upload in progress", lastNotice(t, s).Title)

	s, _ = Reduce(s, FileSelected{File: model.SelectedFile{Name: "other.csv", ContentType: "text/csv"}})
	assert.Equal(t, csvFile.Name, s.Board.File.Name, "selection is frozen while uploading")

	rows := []model.Row{
		model.NewRow(field, "A"), model.NewRow(field, "B"), model.NewRow(field, "A"), model.NewRow(),
	}
	s, _ = Reduce(s, UploadFinished{Epoch: eff.Epoch, Result: model.UploadResult{Message: "ok", Rows: rows}})
	assert.Equal(t, UploadDone, s.Board.Upload)
	assert.Equal(t, "Success: ok", s.Board.Status)
	assert.Equal(t, []model.CategoryCount{{Category: "A", Count: 2}, {Category: "B", Count: 1}, {Category: "Unknown", Count: 1}}, s.Board.Distribution)
	assert.True(t, s.Board.CanUpload())
}

func TestUploadUnauthorizedForcesLogout(t *testing.T) {
	s := signedIn(t)
	s, eff := Reduce(s, UploadRequested{})
	s, eff = Reduce(s, UploadFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindAuth, Status: http.StatusUnauthorized, Message: "expired"}})

	assert.Equal(t, EffClearSession, eff.Kind)
	assert.Equal(t, ViewAuth, s.View)
	assert.Nil(t, s.Session)
	assert.Nil(t, s.Board.File)
	assert.Nil(t, s.Board.Result)
	assert.Empty(t, s.Board.Distribution)
	assert.True(t, s.Board.BackendReady())
	assert.Equal(t, "Access denied", lastNotice(t, s).Title)
}

func TestUploadServerErrorKeepsFile(t *testing.T) {
	s := signedIn(t)
	s, eff := Reduce(s, UploadRequested{})
	s, _ = Reduce(s, UploadFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindServer, Status: 400, Message: "Unsupported columns"}})

	assert.Equal(t, UploadError, s.Board.Upload)
	assert.Equal(t, "Error: Unsupported columns", s.Board.Status)
	require.NotNil(t, s.Board.File)

	_, eff = Reduce(s, UploadRequested{})
	assert.Equal(t, EffUpload, eff.Kind, "the same file may be retried")
}

func TestUploadMalformedAndNetworkStatus(t *testing.T) {
	s := signedIn(t)
	s, eff := Reduce(s, UploadRequested{})
	m, _ := Reduce(s, UploadFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindMalformed, Status: 500, Message: "An unexpected server error occurred. Please try again."}})
	assert.Equal(t, "Error: 500 Internal Server Error", m.Board.Status)

	ok, _ := Reduce(s, UploadFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindMalformed, Status: 200, Message: "An unexpected server error occurred. Please try again."}})
	assert.Equal(t, "Error: An unexpected server error occurred. Please try again.", ok.Board.Status)
	assert.NotContains(t, ok.Board.Status, "200")

	n, _ := Reduce(s, UploadFinished{Epoch: eff.Epoch, Err: &service.Error{Kind: service.KindNetwork, Message: "x", Err: errors.New("connection refused")}})
	assert.Equal(t, "Network error: connection refused", n.Board.Status)
	assert.Equal(t, "Network error", lastNotice(t, n).Title)
}

func TestStaleUploadAfterLogoutIsIgnored(t *testing.T) {
	s := signedIn(t)
	s, upload := Reduce(s, UploadRequested{})
	s, eff := Reduce(s, LogoutRequested{})
	assert.Equal(t, EffClearSession, eff.Kind)
	assert.Equal(t, "Signed out", lastNotice(t, s).Title)

	after, _ := Reduce(s, UploadFinished{Epoch: upload.Epoch, Result: model.UploadResult{Message: "late", Rows: []model.Row{model.NewRow(field, "A")}}})
	assert.Equal(t, s, after)
	assert.Nil(t, after.Board.Result)
}

func TestReduceDoesNotShareNotices(t *testing.T) {
	base := Initial(field)
	base.Notices = make([]Notice, 1, 4)

	x, _ := Reduce(base, LoginSubmitted{})
	y, _ := Reduce(base, LogoutRequested{})
	assert.NotEqual(t, x.Notices[1].Title, y.Notices[1].Title)
	assert.Len(t, base.Notices, 1)

	cleared, _ := Reduce(x, NoticesDismissed{})
	assert.Empty(t, cleared.Notices)
}
