package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopstock/internal/models"
	"shopstock/internal/repository"
	"shopstock/internal/util"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type TokenProvider interface {
	SignAccess(ctx context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error)
	NewRefresh(ctx context.Context, ttl time.Duration) (opaque, hash string, exp time.Time, err error)
}

// RefreshStore keeps refresh token hashes server side. The redis client
// implements it; a nil store disables the refresh flow entirely.
type RefreshStore interface {
	StoreRefresh(ctx context.Context, hash string, userID uuid.UUID, ttl time.Duration) error
	LookupRefresh(ctx context.Context, hash string) (uuid.UUID, error)
	RevokeRefresh(ctx context.Context, hash string) error
}

type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Profile(ctx context.Context) (*models.User, error)
}

type LoginResult struct {
	AccessToken      string
	ExpiresAt        time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
	User             *models.User
}

type authService struct {
	repo       *repository.Repository
	hasher     PasswordHasher
	tokens     TokenProvider
	refresh    RefreshStore
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(repo *repository.Repository, hasher PasswordHasher, tokens TokenProvider, refresh RefreshStore, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		repo:       repo,
		hasher:     hasher,
		tokens:     tokens,
		refresh:    refresh,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *authService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.repo.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Role:         models.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.repo.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, u)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. A token not in the store (expired, revoked, or never
// issued) yields ErrInvalidRefreshToken.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (LoginResult, error) {
	if s.refresh == nil || refreshToken == "" {
		return LoginResult{}, ErrInvalidRefreshToken
	}

	hash := util.HashOpaque(refreshToken)
	uid, err := s.refresh.LookupRefresh(ctx, hash)
	if err != nil {
		return LoginResult{}, err
	}
	if uid == uuid.Nil {
		return LoginResult{}, ErrInvalidRefreshToken
	}

	u, err := s.repo.Users.GetByID(ctx, uid)
	if err != nil {
		return LoginResult{}, err
	}
	if u == nil {
		return LoginResult{}, ErrInvalidRefreshToken
	}

	if err := s.refresh.RevokeRefresh(ctx, hash); err != nil {
		return LoginResult{}, err
	}
	return s.issueTokens(ctx, u)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if s.refresh == nil || refreshToken == "" {
		return ErrInvalidRefreshToken
	}

	hash := util.HashOpaque(refreshToken)
	uid, err := s.refresh.LookupRefresh(ctx, hash)
	if err != nil {
		return err
	}
	if uid == uuid.Nil {
		return ErrInvalidRefreshToken
	}
	return s.refresh.RevokeRefresh(ctx, hash)
}

func (s *authService) issueTokens(ctx context.Context, u *models.User) (LoginResult, error) {
	access, exp, err := s.tokens.SignAccess(ctx, u.ID, string(u.Role), s.accessTTL)
	if err != nil {
		return LoginResult{}, err
	}
	res := LoginResult{AccessToken: access, ExpiresAt: exp, User: u}

	if s.refresh == nil {
		return res, nil
	}
	opaque, hash, rexp, err := s.tokens.NewRefresh(ctx, s.refreshTTL)
	if err != nil {
		return LoginResult{}, err
	}
	if err := s.refresh.StoreRefresh(ctx, hash, u.ID, s.refreshTTL); err != nil {
		return LoginResult{}, err
	}
	res.RefreshToken = opaque
	res.RefreshExpiresAt = rexp
	return res, nil
}

func (s *authService) Profile(ctx context.Context) (*models.User, error) {
	uid, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.Users.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}
