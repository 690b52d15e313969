package auth

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ashboi005/insight-ai/errors"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/domain/repositories"
	"github.com/ashboi005/insight-ai/pkg/jwt"
)

// Service handles registration, login, and token lifecycle
type Service struct {
	userRepo   repositories.UserRepository
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewService creates a new auth service
func NewService(userRepo repositories.UserRepository, jwtManager *jwt.Manager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// RegisterInput carries the fields needed to create an account
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Team      string
}

// TokenPair bundles the issued tokens with their metadata
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User   *entities.User
	Tokens TokenPair
}

// Register creates a new user account and issues tokens
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, errors.ErrUserAlreadyExists(input.Email)
	} else if !stdErrors.Is(err, entities.ErrUserNotFound) {
		return nil, errors.ErrDBQueryFailed("find user by email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	user := entities.NewUser(input.Email, string(hash), input.FirstName, input.LastName, entities.Team(input.Team))
	if err := user.Validate(); err != nil {
		return nil, errors.ErrInvalidArgument(err.Error())
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.ErrDBQueryFailed("create user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("team", string(user.Team)),
	)

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

// Login verifies credentials and issues tokens
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidCredentials()
		}
		return nil, errors.ErrDBQueryFailed("find user by email", err)
	}

	if !user.IsActive {
		return nil, errors.ErrUserInactive()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials()
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: *tokens}, nil
}

// Refresh exchanges a valid refresh token for a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.ErrInvalidRefreshToken()
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrInvalidRefreshToken()
		}
		return nil, errors.ErrDBQueryFailed("find user by ID", err)
	}
	if !user.IsActive {
		return nil, errors.ErrUserInactive()
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role), string(user.Team))
	if err != nil {
		return nil, errors.ErrInternal(err)
	}

	return &TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtManager.GetAccessExpiry().Seconds()),
		TokenType:   "Bearer",
	}, nil
}

// Me returns the user behind a validated access token's user ID
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound()
		}
		return nil, errors.ErrDBQueryFailed("find user by ID", err)
	}
	return user, nil
}

// ListUsers returns registered users with pagination. Admin-only at the
// transport layer.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*entities.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.ErrDBQueryFailed("list users", err)
	}
	return users, nil
}

// ProfileInput carries optional profile updates; nil fields are left
// unchanged
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Team      *entities.Team
}

// UpdateProfile edits the caller's profile fields
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound()
		}
		return nil, errors.ErrDBQueryFailed("find user by ID", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Team != nil {
		if !input.Team.IsValid() {
			return nil, errors.ErrInvalidArgument("invalid team")
		}
		user.Team = *input.Team
	}

	if err := user.Validate(); err != nil {
		return nil, errors.ErrInvalidArgument(err.Error())
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.ErrDBQueryFailed("update user", err)
	}

	s.logger.Info("profile updated", zap.String("user_id", userID.String()))
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return errors.ErrUserNotFound()
		}
		return errors.ErrDBQueryFailed("find user by ID", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return errors.ErrInvalidCredentials()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.ErrInternal(err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return errors.ErrDBQueryFailed("update password", err)
	}

	s.logger.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// ValidateAccessToken resolves an access token to its user. Used by the
// authentication middleware.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, errors.ErrInvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.ErrInvalidToken()
	}
	if !user.IsActive {
		return nil, errors.ErrUserInactive()
	}
	return user, nil
}

func (s *Service) issueTokens(user *entities.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role), string(user.Team))
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.GetAccessExpiry().Seconds()),
		TokenType:    "Bearer",
	}, nil
}
