package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"customer-insights/internal/model"
	"customer-insights/internal/session"
)

const (
	msgUnauthorized  = "Your session has expired or you are not authorized. Please sign in again."
	msgServerUnknown = "Unknown error"
	msgUnexpected    = "An unexpected server error occurred. Please try again."
	msgUploadOK      = "File processed successfully."
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Upload posts file as the single multipart field "file". A 401 comes back
// as an error matching ErrUnauthorized; the caller owns the logout.
func (b *Backend) Upload(ctx context.Context, file model.SelectedFile, s session.Session) (model.UploadResult, error) {
	body, contentType, err := multipartBody(file)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("build upload body: %w", err)
	}
	req, err := b.newRequest(ctx, http.MethodPost, pathUpload, body)
	if err != nil {
		return model.UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", s.AuthorizationHeader())

	resp, err := b.do("upload", req)
	if err != nil {
		return model.UploadResult{}, err
	}

	switch {
	case resp.status == http.StatusUnauthorized:
		return model.UploadResult{}, &Error{Kind: KindAuth, Op: "upload", Status: resp.status, Message: msgUnauthorized}
	case !resp.ok():
		eb, ok := parseErrorBody(resp.body)
		if !ok {
			logBody("upload", resp)
			return model.UploadResult{}, &Error{Kind: KindMalformed, Op: "upload", Status: resp.status, Message: msgUnexpected}
		}
		logBody("upload", resp)
		return model.UploadResult{}, &Error{Kind: KindServer, Op: "upload", Status: resp.status, Message: eb.text(msgServerUnknown)}
	}

	var out model.UploadResult
	if err := json.Unmarshal(resp.body, &out); err != nil {
		logBody("upload", resp)
		return model.UploadResult{}, &Error{Kind: KindMalformed, Op: "upload", Status: resp.status, Message: msgUnexpected, Err: err}
	}
	if out.Message == "" {
		out.Message = msgUploadOK
	}
	return out, nil
}

func multipartBody(file model.SelectedFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
