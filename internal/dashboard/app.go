package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"customer-insights/internal/logger"
	"customer-insights/internal/model"
	"customer-insights/internal/service"
	"customer-insights/internal/session"
)

// Backend is the part of service.Backend the App drives.
type Backend interface {
	Health(ctx context.Context) service.HealthResult
	Login(ctx context.Context, username, password string) (session.Session, error)
	Register(ctx context.Context, in model.RegisterRequest) (string, error)
	Upload(ctx context.Context, file model.SelectedFile, s session.Session) (model.UploadResult, error)
}

// App owns the State. Events are applied one at a time under mu; network
// effects run in goroutines and report back through Dispatch.
type App struct {
	backend Backend
	store   session.Store

	mu    sync.Mutex
	state State
	ctx   context.Context
	wg    sync.WaitGroup
}

func NewApp(backend Backend, store session.Store, categoryField string) *App {
	return &App{
		backend: backend,
		store:   store,
		state:   Initial(categoryField),
		ctx:     context.Background(),
	}
}

// Start restores a saved session and checks the backend once. A session file
// that cannot be read is treated as absent and reported.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	a.ctx = context.WithoutCancel(ctx)
	a.mu.Unlock()

	var loaded *session.Session
	s, ok, err := a.store.Load()
	if err != nil {
		logger.Warn("session.load_failed", "err", err)
	} else if ok {
		loaded = &s
		if exp, ok := s.ExpiresAt(); ok {
			logger.Info("session.restored", "expires_at", exp)
		} else {
			logger.Info("session.restored")
		}
	}
	a.Dispatch(Started{Session: loaded})

	res := a.backend.Health(ctx)
	if res.Ready {
		logger.Info("backend.ready", "url", res.URL)
	} else {
		logger.Warn("backend.unready", "url", res.URL, "status", res.Status, "err", res.Err)
	}
	a.Dispatch(HealthChecked{Result: res})
	return err
}

// Dispatch applies ev and returns the resulting state.
func (a *App) Dispatch(ev Event) State {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, eff := Reduce(a.state, ev)
	a.state = next
	a.run(eff)
	return a.state
}

func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Wait blocks until every request started so far has reported back.
func (a *App) Wait() { a.wg.Wait() }

func (a *App) Authenticated() bool { return a.Snapshot().Authenticated() }

// run is called with mu held. Store effects complete before Dispatch returns.
func (a *App) run(eff Effect) {
	switch eff.Kind {
	case EffSaveSession:
		if err := a.store.Save(eff.Session); err != nil {
			logger.Error("session.save_failed", "err", err)
			a.state = a.state.withNotice(LevelWarning, "Session not saved", "You are signed in, but the session could not be saved and will end when the app stops.")
		}
	case EffClearSession:
		if err := a.store.Clear(); err != nil {
			logger.Error("session.clear_failed", "err", err)
		}
	case EffLogin:
		a.async(func(ctx context.Context) Event {
			s, err := a.backend.Login(ctx, eff.Username, eff.Password)
			if err != nil {
				logger.Warn("login.failed", "username", eff.Username, "kind", service.KindOf(err).String(), "err", err)
			} else {
				logger.Info("login.ok", "username", eff.Username)
			}
			return LoginFinished{Epoch: eff.Epoch, Session: s, Err: err}
		})
	case EffRegister:
		a.async(func(ctx context.Context) Event {
			msg, err := a.backend.Register(ctx, eff.Register)
			if err != nil {
				logger.Warn("register.failed", "email", eff.Register.Email, "kind", service.KindOf(err).String(), "err", err)
			} else {
				logger.Info("register.ok", "email", eff.Register.Email)
			}
			return RegisterFinished{Epoch: eff.Epoch, Message: msg, Err: err}
		})
	case EffUpload:
		a.async(func(ctx context.Context) Event {
			res, err := a.backend.Upload(ctx, eff.File, eff.Session)
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				logger.Warn("upload.unauthorized", "file", eff.File.Name)
			case err != nil:
				logger.Warn("upload.failed", "file", eff.File.Name, "kind", service.KindOf(err).String(), "err", err)
			default:
				logger.Info("upload.ok", "file", eff.File.Name, "bytes", eff.File.Size(), "rows", len(res.Rows))
			}
			return UploadFinished{Epoch: eff.Epoch, Result: res, Err: err}
		})
	}
}

func (a *App) async(call func(ctx context.Context) Event) {
	ctx := a.ctx
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ev := call(ctx)
		a.mu.Lock()
		stale := eventEpoch(ev) != a.state.Epoch
		a.mu.Unlock()
		if stale {
			logger.Debug("response.stale", "event", fmt.Sprintf("%T", ev))
		}
		a.Dispatch(ev)
	}()
}

func eventEpoch(ev Event) uint64 {
	switch e := ev.(type) {
	case LoginFinished:
		return e.Epoch
	case RegisterFinished:
		return e.Epoch
	case UploadFinished:
		return e.Epoch
	}
	return 0
}
