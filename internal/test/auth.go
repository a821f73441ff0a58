package test

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	pkgAuth "github.com/polkiloo/eshop/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(int64) (string, error)
	ParseFn func(string) (pkgAuth.Claims, error)
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID int64) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Claims{UserID: 1}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// RequesterResolverStub maps tokens to requesters for middleware tests.
type RequesterResolverStub struct {
	Tokens map[string]model.Requester
	Err    error
}

// Requester returns the requester registered for token.
func (s RequesterResolverStub) Requester(ctx context.Context, token string) (model.Requester, error) {
	if s.Err != nil {
		return model.Requester{}, s.Err
	}
	req, ok := s.Tokens[token]
	if !ok {
		return model.Requester{}, domainErrors.ErrUnauthorized
	}
	return req, nil
}

// Customer returns a plain user requester.
func Customer(id int64, login string) model.Requester {
	return model.Requester{UserID: id, Login: login, Roles: []model.Role{model.RoleUser}}
}

// Admin returns an elevated requester.
func Admin(id int64, login string) model.Requester {
	return model.Requester{UserID: id, Login: login, Roles: []model.Role{model.RoleAdmin}}
}

var _ pkgAuth.PasswordHasher = HasherStub{}
var _ pkgAuth.Strategy = StrategyStub{}
