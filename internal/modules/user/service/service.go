package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/internal/modules/user/dto"
	"github.com/kunal592/MD-BlogApp/internal/modules/user/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	"github.com/kunal592/MD-BlogApp/pkg/identity"
)

type AuthService interface {
	// GoogleSignIn exchanges a Google ID token for a session token.
	GoogleSignIn(ctx context.Context, credential string) (*dto.AuthResponse, error)
	GoogleLoginURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	verifier identity.Verifier
	oauth    *identity.OAuthFlow
	tokens   *identity.TokenIssuer
}

// NewAuthService accepts a nil oauth flow when the redirect login is not
// configured.
func NewAuthService(repo repository.UserRepository, verifier identity.Verifier, oauth *identity.OAuthFlow, tokens *identity.TokenIssuer) AuthService {
	return &authService{
		repo:     repo,
		verifier: verifier,
		oauth:    oauth,
		tokens:   tokens,
	}
}

func (s *authService) GoogleSignIn(ctx context.Context, credential string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: credential missing", apperror.ErrInvalidInput)
	}

	profile, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return nil, credentialError(err)
	}

	return s.signIn(ctx, profile)
}

func (s *authService) GoogleLoginURL(state string) (string, error) {
	if s.oauth == nil {
		return "", fmt.Errorf("%w: google login is not configured", apperror.ErrInvalidOperation)
	}
	return s.oauth.AuthCodeURL(state), nil
}

func (s *authService) GoogleCallback(ctx context.Context, code string) (*dto.AuthResponse, error) {
	if s.oauth == nil {
		return nil, fmt.Errorf("%w: google login is not configured", apperror.ErrInvalidOperation)
	}
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code missing", apperror.ErrInvalidInput)
	}

	profile, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, credentialError(err)
	}

	return s.signIn(ctx, profile)
}

func credentialError(err error) error {
	if errors.Is(err, identity.ErrInvalidCredential) {
		return fmt.Errorf("%w: %v", apperror.ErrUnauthorized, err)
	}
	return err
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromEntity(user)
	return &resp, nil
}

// signIn finds the account by google id, then by email (linking the google
// id), and creates it on first login.
func (s *authService) signIn(ctx context.Context, profile *identity.GoogleProfile) (*dto.AuthResponse, error) {
	user, err := s.findOrCreate(ctx, profile)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperror.ErrForbidden)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   dto.TokenType,
		ExpiresAt:   expiresAt,
		User:        dto.FromEntity(user),
	}, nil
}

func (s *authService) findOrCreate(ctx context.Context, profile *identity.GoogleProfile) (*entity.User, error) {
	if profile.GoogleID != "" {
		user, err := s.repo.FindByGoogleID(ctx, profile.GoogleID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if profile.GoogleID != "" && (user.GoogleID == nil || *user.GoogleID != profile.GoogleID) {
			if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{"google_id": profile.GoogleID}); err != nil {
				log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to link google account")
			} else {
				user.GoogleID = &profile.GoogleID
			}
		}
		return user, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	user = &entity.User{
		Email:    email,
		Name:     displayName(profile.Name, email),
		Role:     entity.RoleUser,
		IsActive: true,
	}
	if profile.GoogleID != "" {
		user.GoogleID = &profile.GoogleID
	}
	if profile.Picture != "" {
		user.Avatar = &profile.Picture
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user registered via google")
	return user, nil
}

func displayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
