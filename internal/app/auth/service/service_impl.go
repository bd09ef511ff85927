package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Miraines/storefront-auth/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/storefront-auth/internal/domain/auth/errors"
	"github.com/Miraines/storefront-auth/internal/domain/auth/jwt"
	"github.com/Miraines/storefront-auth/internal/domain/auth/model"
	"github.com/Miraines/storefront-auth/internal/domain/auth/password"
	repo "github.com/Miraines/storefront-auth/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type authService struct {
	userRepo repo.UserRepo
	cache    repo.IdentityCache
	hasher   password.Hasher
	tokens   jwt.TokenIssuer
	v        *validator.Validate

	// compared against when the email is unknown, so both login failures
	// cost one hash verification
	dummyHash string
}

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.AuthResult, error)
	Login(context.Context, dto.LoginDTO) (model.AuthResult, error)
	Profile(context.Context, *model.Identity) (model.Identity, error)
	Authenticate(ctx context.Context, token string) (model.Identity, error)
}

// New wires the service. cache may be nil.
func New(
	ur repo.UserRepo,
	cache repo.IdentityCache,
	h password.Hasher,
	tokens jwt.TokenIssuer,
	v *validator.Validate,
) (Service, error) {
	dummy, err := h.Hash(uuid.NewString())
	if err != nil {
		return nil, customErrors.WrapInternal(err, "prepare dummy hash")
	}
	if cache == nil {
		cache = noCache{}
	}
	return &authService{
		userRepo: ur, cache: cache, hasher: h, tokens: tokens, v: v, dummyHash: dummy,
	}, nil
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.AuthResult, error) {
	if err := a.v.Struct(in); err != nil {
		return model.AuthResult{}, customErrors.NewInvalidArgument(describe(err))
	}

	// Fast path only; the unique index in the store is what actually
	// guarantees a single record per email.
	_, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return model.AuthResult{}, customErrors.ErrAlreadyExists
	case !errors.Is(err, customErrors.ErrNotFound):
		return model.AuthResult{}, customErrors.WrapInternal(err, "Register")
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if errors.Is(err, password.ErrTooLong) {
		return model.AuthResult{}, customErrors.NewInvalidArgument("password is too long")
	}
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "Register")
	}

	user := model.User{
		Email:        in.Email,
		PasswordHash: passwordHash,
		Name:         in.Name,
	}
	if user.ID, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.AuthResult{}, customErrors.ErrAlreadyExists
		}
		return model.AuthResult{}, customErrors.WrapInternal(err, "Register")
	}

	a.cache.Set(ctx, user.Identity())
	return a.issue(user)
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.AuthResult, error) {
	if err := a.v.Struct(in); err != nil {
		return model.AuthResult{}, customErrors.NewInvalidArgument(describe(err))
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		_, _ = a.hasher.Verify(in.Password, a.dummyHash)
		return model.AuthResult{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.AuthResult{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.AuthResult{}, customErrors.ErrInvalidCredentials
	}

	a.cache.Set(ctx, user.Identity())
	return a.issue(user)
}

func (a *authService) Profile(_ context.Context, identity *model.Identity) (model.Identity, error) {
	if identity == nil {
		return model.Identity{}, customErrors.ErrNotFound
	}
	return *identity, nil
}

func (a *authService) Authenticate(ctx context.Context, token string) (model.Identity, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return model.Identity{}, customErrors.ErrInvalidToken
	}

	if identity, ok := a.cache.Get(ctx, uid); ok {
		return identity, nil
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.Identity{}, customErrors.ErrNotFound
	case err != nil:
		return model.Identity{}, customErrors.WrapInternal(err, "Authenticate")
	}

	identity := user.Identity()
	a.cache.Set(ctx, identity)
	return identity, nil
}

func (a *authService) issue(user model.User) (model.AuthResult, error) {
	token, exp, err := a.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResult{}, customErrors.WrapInternal(err, "IssueToken")
	}
	return model.AuthResult{
		Token:     token,
		ExpiresAt: exp,
		UserID:    user.ID,
		Email:     user.Email,
	}, nil
}

// describe turns validator output into "email is required, password is required".
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" is "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}

type noCache struct{}

func (noCache) Get(context.Context, uuid.UUID) (model.Identity, bool) { return model.Identity{}, false }
func (noCache) Set(context.Context, model.Identity)                  {}
