package dashboard

import (
	"errors"
	"fmt"
	"net/http"

	"customer-insights/internal/filetype"
	"customer-insights/internal/service"
	"customer-insights/internal/stats"
)

func fileSelected(s State, e FileSelected) State {
	if s.View != ViewDashboard {
		return s
	}
	if s.Board.Upload == Uploading {
		return s.withNotice(LevelWarning, "Upload in progress", "Wait for the current upload to finish before choosing another file.")
	}

	s.Board.Upload = UploadIdle
	s.Board.Status = ""
	s.Board.Result = nil
	s.Board.Distribution = nil

	f := e.File
	ct, ok := filetype.Resolve(f.Name, f.ContentType, f.Data)
	if !ok {
		s.Board.File = nil
		return s.withNotice(LevelWarning, "File type not allowed", "Please choose a CSV (.csv), XLS (.xls) or XLSX (.xlsx) file.")
	}
	f.ContentType = ct
	s.Board.File = &f
	return s
}

func uploadRequested(s State) (State, Effect) {
	if s.View != ViewDashboard || s.Session == nil {
		return s, none
	}
	switch {
	case !s.Board.Health.Ready:
		return s.withNotice(LevelWarning, "Backend unavailable", "The backend connection is not established. Make sure it is running."), none
	case s.Board.File == nil:
		return s.withNotice(LevelWarning, "No file selected", "Please select a file to upload first."), none
	case s.Board.Upload == Uploading:
		return s.withNotice(LevelWarning, "Upload in progress", "Please wait for the current upload to finish."), none
	}

	s.Epoch++
	s.Board.Upload = Uploading
	s.Board.Status = "Uploading and processing..."
	return s, Effect{Kind: EffUpload, Epoch: s.Epoch, File: *s.Board.File, Session: *s.Session}
}

func uploadFinished(s State, e UploadFinished) (State, Effect) {
	if e.Epoch != s.Epoch || s.Board.Upload != Uploading {
		return s, none
	}
	if e.Err == nil {
		res := e.Result
		s.Board.Upload = UploadDone
		s.Board.Result = &res
		s.Board.Distribution = stats.Aggregate(res.Rows, s.CategoryField)
		s.Board.Status = "Success: " + res.Message
		return s.withNotice(LevelSuccess, "Success!", "File uploaded and processed successfully."), none
	}

	if errors.Is(e.Err, service.ErrUnauthorized) {
		s = logout(s)
		return s.withNotice(LevelError, "Access denied", service.Message(e.Err)), Effect{Kind: EffClearSession}
	}

	s.Board.Upload = UploadError
	msg := service.Message(e.Err)
	var se *service.Error
	errors.As(e.Err, &se)
	switch service.KindOf(e.Err) {
	case service.KindNetwork:
		cause := msg
		if se != nil && se.Err != nil {
			cause = se.Err.Error()
		}
		s.Board.Status = "Network error: " + cause
		return s.withNotice(LevelError, "Network error", msg), none
	case service.KindMalformed:
		// A 2xx whose body could not be read says nothing useful as a status line.
		if se != nil && (se.Status < 200 || se.Status > 299) {
			s.Board.Status = fmt.Sprintf("Error: %d %s", se.Status, http.StatusText(se.Status))
		} else {
			s.Board.Status = "Error: " + msg
		}
		return s.withNotice(LevelError, "Error", msg), none
	}
	s.Board.Status = "Error: " + msg
	return s.withNotice(LevelError, "Error", s.Board.Status), none
}
