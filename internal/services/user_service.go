package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/yashrajoria/catalog-service/internal/auth"
	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
	"github.com/yashrajoria/catalog-service/internal/models"
	"github.com/yashrajoria/catalog-service/internal/repository"
)

var (
	ErrUserNotFound   = apperrors.WithMessage(apperrors.ErrNotFound, "The user with the given ID was not found")
	ErrEmailTaken     = apperrors.WithMessage(apperrors.ErrConflict, "A user with this email already exists")
	ErrUserNotCreated = apperrors.WithMessage(apperrors.ErrStorage, "The user cannot be created")
)

// TokenIssuer signs tokens for authenticated principals.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

type UserService struct {
	repo   repository.UserRepo
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(repo repository.UserRepo, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a regular (non-admin) account.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, false)
}

// CreateAdmin creates an account with the admin flag set. It is only reachable
// from the command line.
func (s *UserService) CreateAdmin(ctx context.Context, req RegisterRequest) (*models.User, error) {
	return s.create(ctx, req, true)
}

func (s *UserService) create(ctx context.Context, req RegisterRequest, isAdmin bool) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrValidation, err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		IsAdmin:      isAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if apperrors.IsKind(err, apperrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, apperrors.Wrap(ErrUserNotCreated, err)
	}

	zap.L().Info("user registered", zap.String("user_id", user.ID.Hex()), zap.Bool("admin", isAdmin))
	return user, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Principal{Email: user.Email, IsAdmin: user.IsAdmin})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	return &LoginResponse{User: user.Email, Token: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, oid)
	if apperrors.IsKind(err, apperrors.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Update applies a partial profile update. The stored hash is replaced only
// when a non-empty password that does not already match is supplied.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	setString(&user.Name, req.Name)
	setString(&user.Phone, req.Phone)
	setString(&user.Street, req.Street)
	setString(&user.Apartment, req.Apartment)
	setString(&user.Zip, req.Zip)
	setString(&user.City, req.City)
	setString(&user.Country, req.Country)
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}

	if req.Password != nil && *req.Password != "" && !s.hasher.Compare(user.PasswordHash, *req.Password) {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrValidation, err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case apperrors.IsKind(err, apperrors.ErrConflict):
			return nil, ErrEmailTaken
		case apperrors.IsKind(err, apperrors.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id, ErrUserNotFound)
	if err != nil {
		return err
	}
	err = s.repo.Delete(ctx, oid)
	if apperrors.IsKind(err, apperrors.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
