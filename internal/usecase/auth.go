package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
	"github.com/polkiloo/eshop/internal/domain/repository"
	pkgAuth "github.com/polkiloo/eshop/internal/pkg/auth"
)

// AuthUseCase handles user registration, login and token resolution.
type AuthUseCase struct {
	users       repository.UserRepository
	hasher      pkgAuth.PasswordHasher
	tokens      pkgAuth.Strategy
	adminLogins map[string]struct{}
}

// AuthOption tunes AuthUseCase.
type AuthOption func(*AuthUseCase)

// WithAdminLogins grants the admin role to these logins when they register.
func WithAdminLogins(logins ...string) AuthOption {
	return func(u *AuthUseCase) {
		for _, login := range logins {
			if login = strings.TrimSpace(login); login != "" {
				u.adminLogins[login] = struct{}{}
			}
		}
	}
}

// RegisterRequest carries a new account. Address becomes the default shipping address.
type RegisterRequest struct {
	Login    string
	Password string
	Address  *model.Address
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, opts ...AuthOption) *AuthUseCase {
	u := &AuthUseCase{users: users, hasher: hasher, tokens: strategy, adminLogins: make(map[string]struct{})}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register creates a user and returns an auth token. New users get the plain user role,
// plus admin when the login is listed in WithAdminLogins.
func (u *AuthUseCase) Register(ctx context.Context, in RegisterRequest) (*model.User, string, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordLength) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	roles := []model.Role{model.RoleUser}
	if _, ok := u.adminLogins[login]; ok {
		roles = append(roles, model.RoleAdmin)
	}

	usr, err := u.users.Create(ctx, &model.User{
		Login:           login,
		PasswordHash:    hash,
		Roles:           roles,
		ShippingAddress: in.Address,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Requester resolves a token into the identity and current roles of its user.
func (u *AuthUseCase) Requester(ctx context.Context, token string) (model.Requester, error) {
	if token == "" {
		return model.Requester{}, domainErrors.ErrUnauthorized
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Requester{}, domainErrors.ErrUnauthorized
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return model.Requester{}, domainErrors.ErrUnauthorized
		}
		return model.Requester{}, err
	}
	return model.NewRequester(usr), nil
}
