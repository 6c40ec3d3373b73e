package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dorincreciun/go-pizza-api/internal/httpx"
	"github.com/dorincreciun/go-pizza-api/internal/models"
	"github.com/dorincreciun/go-pizza-api/internal/storage"
	"github.com/dorincreciun/go-pizza-api/internal/stores"
	"github.com/dorincreciun/go-pizza-api/internal/token"
	"github.com/dorincreciun/go-pizza-api/internal/user"
)

var (
	ErrEmailTaken = httpx.Conflict("email is already registered")
	// ErrBadCredentials never reveals which factor was wrong.
	ErrBadCredentials = httpx.Unauthorized("incorrect email or password")
	// ErrRefreshInvalid is the single outcome of every refresh failure.
	ErrRefreshInvalid = httpx.Unauthorized("refresh token invalid or expired")
	ErrUserNotFound   = httpx.Unauthorized("user does not exist")
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// UserResponse is the public projection of a user. The password hash is
// deliberately absent.
type UserResponse struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	ProfileImage *string `json:"profileImage"`
	Role         string  `json:"role"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// Session is what register and login hand back. The refresh token is
// only ever placed in the transport cookie, never in a response body.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *UserResponse
}

// ProfileUpdate carries the optional profile fields. A nil pointer means
// "leave untouched"; a pointer to the empty string normalizes to NULL.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
}

// ImageUpload is a validated in-memory profile image.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// Service owns the session-token lifecycle: credential checks, token
// issuance, refresh rotation and profile mutation.
type Service struct {
	users      stores.UserStore
	refresh    stores.RefreshTokenStore
	tokens     token.TokenService
	hasher     user.PasswordHasher
	images     storage.ImageStorage
	refreshTTL time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewService(
	users stores.UserStore,
	refresh stores.RefreshTokenStore,
	tokens token.TokenService,
	hasher user.PasswordHasher,
	images storage.ImageStorage,
	refreshTTL time.Duration,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:      users,
		refresh:    refresh,
		tokens:     tokens,
		hasher:     hasher,
		images:     images,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

// Register creates the user and opens its first session.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, stores.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(u); err != nil {
		if errors.Is(err, stores.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	access, refresh, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", u.ID))
	return &Session{AccessToken: access, RefreshToken: refresh, User: s.toResponse(u)}, nil
}

// Login verifies credentials and enforces single-active-session: every
// outstanding refresh token of the user is invalidated first.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if err := s.hasher.Compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	if err := s.refresh.DeleteAllForUser(u.ID); err != nil {
		return nil, fmt.Errorf("invalidate sessions: %w", err)
	}

	access, refresh, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return &Session{AccessToken: access, RefreshToken: refresh, User: s.toResponse(u)}, nil
}

// Refresh rotates the presented token. Every internal failure collapses
// to ErrRefreshInvalid so a caller cannot tell a missing token from an
// expired or forged one.
func (s *Service) Refresh(ctx context.Context, raw string) (accessToken, refreshToken string, err error) {
	accessToken, refreshToken, err = s.rotate(raw)
	if err != nil {
		if !errors.Is(err, ErrRefreshInvalid) {
			s.log.Warn("refresh rejected", zap.Error(err))
		}
		return "", "", ErrRefreshInvalid
	}
	return accessToken, refreshToken, nil
}

func (s *Service) rotate(raw string) (string, string, error) {
	rt, err := s.refresh.FindByToken(raw)
	if err != nil {
		return "", "", ErrRefreshInvalid
	}

	if rt.ExpiresAt.Before(s.now()) {
		s.discard(raw)
		return "", "", ErrRefreshInvalid
	}

	if rt.User == nil {
		s.discard(raw)
		return "", "", ErrRefreshInvalid
	}

	// The store lookup above is authoritative; the signature check is
	// defense in depth against store/claim divergence.
	claims, err := s.tokens.ParseRefreshToken(raw)
	if err != nil {
		return "", "", ErrRefreshInvalid
	}
	if claims.Subject != rt.UserID {
		s.discard(raw)
		return "", "", ErrRefreshInvalid
	}

	// Rotation. The conditional delete is the arbiter between two
	// concurrent presentations of the same token: only the caller whose
	// delete removed the row may continue.
	deleted, err := s.refresh.DeleteByToken(raw)
	if err != nil {
		return "", "", fmt.Errorf("rotate token: %w", err)
	}
	if !deleted {
		return "", "", ErrRefreshInvalid
	}

	return s.issueTokens(rt.User)
}

// Logout is best-effort and idempotent; a missing or unknown token is
// not an error.
func (s *Service) Logout(ctx context.Context, raw string) {
	if raw == "" {
		return
	}
	if _, err := s.refresh.DeleteByToken(raw); err != nil {
		s.log.Warn("logout delete failed", zap.Error(err))
	}
}

// ValidateUserByID resolves the bearer identity on every authenticated
// request.
func (s *Service) ValidateUserByID(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.toResponse(u), nil
}

// UpdateProfile applies only the supplied fields. When an image is
// attached the new file is uploaded before the old one is deleted, so a
// failed upload can never destroy the previously working image.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate, img *ImageUpload) (*UserResponse, error) {
	existing, err := s.users.GetByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]any{}
	if upd.FirstName != nil {
		updates["first_name"] = emptyToNull(*upd.FirstName)
	}
	if upd.LastName != nil {
		updates["last_name"] = emptyToNull(*upd.LastName)
	}

	if img != nil {
		url, err := s.images.Upload(ctx, img.Data, img.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload profile image: %w", err)
		}

		// Only after the upload succeeded. A dangling object in the
		// bucket is acceptable; failing the request here is not.
		if existing.ProfileImage != nil {
			if err := s.images.Delete(ctx, *existing.ProfileImage); err != nil {
				s.log.Warn("delete old profile image failed",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
		updates["profile_image"] = url
	}

	if len(updates) == 0 {
		return s.toResponse(existing), nil
	}

	updated, err := s.users.Update(userID, updates)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return s.toResponse(updated), nil
}

func (s *Service) issueTokens(u *models.User) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	rt := &models.RefreshToken{
		Token:     refresh,
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(rt); err != nil {
		return "", "", fmt.Errorf("persist refresh token: %w", err)
	}
	return access, refresh, nil
}

func (s *Service) discard(raw string) {
	if _, err := s.refresh.DeleteByToken(raw); err != nil {
		s.log.Warn("discard refresh token failed", zap.Error(err))
	}
}

func (s *Service) toResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt.UTC().Format(isoMillis),
		UpdatedAt:    u.UpdatedAt.UTC().Format(isoMillis),
	}
}

func emptyToNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
