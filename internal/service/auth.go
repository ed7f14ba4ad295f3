package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"customer-insights/internal/model"
	"customer-insights/internal/session"
)

const (
	msgLoginUnknown    = "Unknown error while signing in."
	msgRegisterUnknown = "Unknown error while registering."
	msgRegisterOK      = "Your account has been created. You can now sign in."
)

// Login exchanges credentials for a bearer token using the OAuth2 password
// form the backend expects.
func (b *Backend) Login(ctx context.Context, username, password string) (session.Session, error) {
	form := url.Values{"username": {username}, "password": {password}}
	req, err := b.newRequest(ctx, http.MethodPost, pathLogin, strings.NewReader(form.Encode()))
	if err != nil {
		return session.Session{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.do("login", req)
	if err != nil {
		return session.Session{}, err
	}
	if !resp.ok() {
		body, ok := parseErrorBody(resp.body)
		if !ok {
			logBody("login", resp)
			return session.Session{}, &Error{Kind: KindMalformed, Op: "login", Status: resp.status, Message: msgLoginUnknown}
		}
		kind := KindServer
		switch resp.status {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			kind = KindAuth
		}
		return session.Session{}, &Error{Kind: kind, Op: "login", Status: resp.status, Message: body.text(msgLoginUnknown)}
	}

	var out model.LoginResponse
	if err := json.Unmarshal(resp.body, &out); err != nil || out.AccessToken == "" {
		logBody("login", resp)
		return session.Session{}, &Error{Kind: KindMalformed, Op: "login", Status: resp.status, Message: msgLoginUnknown, Err: err}
	}
	return session.Session{AccessToken: out.AccessToken, TokenType: out.TokenType}, nil
}

// Register creates an account and returns the server's confirmation text.
func (b *Backend) Register(ctx context.Context, in model.RegisterRequest) (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("encode register request: %w", err)
	}
	req, err := b.newRequest(ctx, http.MethodPost, pathRegister, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.do("register", req)
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		body, ok := parseErrorBody(resp.body)
		if !ok {
			logBody("register", resp)
			return "", &Error{Kind: KindMalformed, Op: "register", Status: resp.status, Message: msgRegisterUnknown}
		}
		if resp.status == http.StatusUnprocessableEntity {
			if msg, ok := body.validation(); ok {
				return "", &Error{Kind: KindValidation, Op: "register", Status: resp.status, Message: msg}
			}
		}
		return "", &Error{Kind: KindServer, Op: "register", Status: resp.status, Message: body.text(msgRegisterUnknown)}
	}

	var out model.RegisterResponse
	if len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, &out); err != nil {
			logBody("register", resp)
		}
	}
	if out.Message == "" {
		out.Message = msgRegisterOK
	}
	return out.Message, nil
}
