package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/errors"
	authdto "github.com/ashboi005/insight-ai/internal/adapter/dto/auth"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/usecase/auth"
)

// Auth handles authentication HTTP requests
type Auth struct {
	service *auth.Service
	logger  *zap.Logger
}

// NewAuth creates a new auth handler
func NewAuth(service *auth.Service, logger *zap.Logger) *Auth {
	return &Auth{
		service: service,
		logger:  logger,
	}
}

// Register creates a new account
// POST /v1/auth/register
func (h *Auth) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.service.Register(ctx, auth.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Team:      req.Team,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleCreated(h.logger, c, &authdto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		TokenType:    result.Tokens.TokenType,
		User:         authdto.NewUserResponse(result.User),
	})
}

// Login authenticates a user
// POST /v1/auth/login
func (h *Auth) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &authdto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresIn:    result.Tokens.ExpiresIn,
		TokenType:    result.Tokens.TokenType,
		User:         authdto.NewUserResponse(result.User),
	})
}

// RefreshToken refreshes the access token
// POST /v1/auth/refresh
func (h *Auth) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.RefreshTokenRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	tokens, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, &authdto.RefreshTokenResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
		TokenType:   tokens.TokenType,
	})
}

// Me returns the current user information
// GET /v1/auth/me
func (h *Auth) Me(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}
	return HandleSuccess(h.logger, c, authdto.NewUserResponse(user))
}

// Users lists registered accounts. Admin-only.
// GET /v1/auth/users
func (h *Auth) Users(c echo.Context) error {
	ctx := c.Request().Context()

	var req authdto.ListUsersRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	users, err := h.service.ListUsers(ctx, req.Limit, req.Offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.NewUserResponseList(users))
}

// UpdateMe edits the current user's profile
// PUT /v1/auth/me
func (h *Auth) UpdateMe(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req authdto.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	input := auth.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Team != nil {
		team := entities.Team(*req.Team)
		input.Team = &team
	}

	updated, err := h.service.UpdateProfile(ctx, user.ID, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, authdto.NewUserResponse(updated))
}

// ChangePassword updates the current user's password
// POST /v1/auth/change-password
func (h *Auth) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()

	user, ok := currentUser(c)
	if !ok {
		return HandleError(h.logger, c, errors.ErrUnauthenticated())
	}

	var req authdto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.service.ChangePassword(ctx, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"message": "Password changed successfully"})
}
