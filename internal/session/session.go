// Package session owns the per-user client state: credentials, API client,
// cart projection, mutation controller and the notification bus. The cart
// side is created at login and torn down at logout instead of living as
// ambient global state.
package session

import (
	"context"
	"errors"
	"log"

	"redstore/internal/api"
	"redstore/internal/cart"
	"redstore/internal/credentials"
	"redstore/internal/domain"
	"redstore/internal/notify"
)

type Session struct {
	logger *log.Logger
	creds  *credentials.Store
	client *api.Client
	bus    *notify.Bus

	user *domain.User
	proj *cart.Projection
	ctrl *cart.Controller
	subs []*notify.Subscription
}

// New opens the credentials store and builds an unauthenticated session.
func New(baseURL, credentialsFile string, logger *log.Logger) (*Session, error) {
	creds, err := credentials.Open(credentialsFile)
	if err != nil {
		return nil, err
	}
	s := &Session{
		logger: logger,
		creds:  creds,
		bus:    notify.NewBus(),
	}
	s.client = api.New(baseURL, creds, logger)
	return s, nil
}

// Resume validates a previously stored credential against /auth/me. An
// expired or rejected token is cleared silently, leaving the session signed
// out; any other failure is returned.
func (s *Session) Resume(ctx context.Context) error {
	if s.creds.Token() == "" {
		return nil
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			s.logger.Printf("stored credentials expired, signing out")
			return s.creds.Clear()
		}
		return err
	}
	s.attach(user)
	return nil
}

// Login authenticates, persists the credential and builds the cart side.
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.creds.Save(res.Token, &res.User); err != nil {
		return nil, err
	}
	s.attach(&res.User)
	return &res.User, nil
}

// Signup registers a new customer and signs them in.
func (s *Session) Signup(ctx context.Context, email, password, firstName, lastName string) (*domain.User, error) {
	res, err := s.client.Signup(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if err := s.creds.Save(res.Token, &res.User); err != nil {
		return nil, err
	}
	s.attach(&res.User)
	return &res.User, nil
}

// Logout clears the credential and tears the cart side down, cancelling
// every subscription taken out through this session.
func (s *Session) Logout() error {
	for _, sub := range s.subs {
		sub.Cancel()
	}
	s.subs = nil
	s.user = nil
	s.proj = nil
	s.ctrl = nil
	return s.creds.Clear()
}

func (s *Session) attach(user *domain.User) {
	s.user = user
	s.proj = cart.NewProjection(s.client)
	s.ctrl = cart.NewController(s.client, s.proj, s.bus, s.logger)
}

// OnCartUpdated subscribes fn to cart-update broadcasts for the lifetime of
// this session.
func (s *Session) OnCartUpdated(fn notify.Handler) *notify.Subscription {
	sub := s.bus.Subscribe(notify.CartUpdated, fn)
	s.subs = append(s.subs, sub)
	return sub
}

func (s *Session) LoggedIn() bool               { return s.user != nil }
func (s *Session) User() *domain.User           { return s.user }
func (s *Session) Client() *api.Client          { return s.client }
func (s *Session) Projection() *cart.Projection { return s.proj }
func (s *Session) Controller() *cart.Controller { return s.ctrl }
func (s *Session) Bus() *notify.Bus             { return s.bus }
