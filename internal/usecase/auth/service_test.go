package auth

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/ashboi005/insight-ai/errors"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/pkg/jwt"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	users map[uuid.UUID]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entities.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *entities.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return entities.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if user, ok := f.users[id]; ok {
		user.IsActive = false
	}
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	manager := jwt.NewManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, manager, nil), repo
}

func appCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr apperrors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:     "maya@example.com",
		Password:  "correct horse battery",
		FirstName: "Maya",
		LastName:  "Singh",
		Team:      "Devs",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if result.User.Team != entities.TeamDevs {
		t.Errorf("unexpected team %q", result.User.Team)
	}
	if result.User.PasswordHash == "correct horse battery" {
		t.Error("password stored in plaintext")
	}

	login, err := svc.Login(ctx, "maya@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Error("login returned a different user")
	}
}

func TestRegister_UnknownTeamFallsBackToGeneral(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "sam@example.com",
		Password:  "a strong password",
		FirstName: "Sam",
		LastName:  "Lee",
		Team:      "Engineering",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.Team != entities.TeamGeneral {
		t.Errorf("expected General, got %q", result.User.Team)
	}
}

func TestListUsers(t *testing.T) {
	svc, repo := newTestService()

	for i := 0; i < 3; i++ {
		user := entities.NewUser(fmt.Sprintf("user%d@example.com", i), "hash", "User", "Test", entities.TeamGeneral)
		repo.users[user.ID] = user
	}

	users, err := svc.ListUsers(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:     "maya@example.com",
		Password:  "correct horse battery",
		FirstName: "Maya",
		LastName:  "Singh",
		Team:      "Devs",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	newName := "Mya"
	newTeam := entities.TeamDesign
	updated, err := svc.UpdateProfile(ctx, result.User.ID, ProfileInput{
		FirstName: &newName,
		Team:      &newTeam,
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.FirstName != "Mya" || updated.Team != entities.TeamDesign {
		t.Errorf("profile not updated: %+v", updated)
	}
	if updated.LastName != "Singh" {
		t.Error("untouched field changed")
	}

	badTeam := entities.Team("Engineering")
	_, err = svc.UpdateProfile(ctx, result.User.ID, ProfileInput{Team: &badTeam})
	if code := appCode(t, err); code != apperrors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected invalid argument, got code %v", code)
	}

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfileInput{FirstName: &newName})
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_USER_NOT_FOUND {
		t.Fatalf("expected user not found, got code %v", code)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	input := RegisterInput{
		Email:     "dup@example.com",
		Password:  "a strong password",
		FirstName: "Du",
		LastName:  "Plicate",
	}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(ctx, input)
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_USER_ALREADY_EXISTS {
		t.Fatalf("expected user already exists, got code %v", code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{
		Email: "a@example.com", Password: "right password", FirstName: "A", LastName: "B",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, "a@example.com", "wrong password")
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS {
		t.Fatalf("expected invalid credentials, got code %v", code)
	}
}

func TestLogin_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS {
		t.Fatalf("expected invalid credentials, got code %v", code)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email: "gone@example.com", Password: "a strong password", FirstName: "G", LastName: "One",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	repo.users[result.User.ID].IsActive = false

	_, err = svc.Login(ctx, "gone@example.com", "a strong password")
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_USER_INACTIVE {
		t.Fatalf("expected user inactive, got code %v", code)
	}
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email: "r@example.com", Password: "a strong password", FirstName: "R", LastName: "T",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	tokens, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Error("expected a new access token")
	}

	if _, err := svc.Refresh(ctx, "not-a-token"); err == nil {
		t.Error("expected garbage refresh token to be rejected")
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email: "c@example.com", Password: "old password 1", FirstName: "C", LastName: "P",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err = svc.ChangePassword(ctx, result.User.ID, "wrong old", "new password 1")
	if code := appCode(t, err); code != apperrors.ErrorCode_AUTH_INVALID_CREDENTIALS {
		t.Fatalf("expected invalid credentials, got code %v", code)
	}

	if err := svc.ChangePassword(ctx, result.User.ID, "old password 1", "new password 1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.Login(ctx, "c@example.com", "old password 1"); err == nil {
		t.Error("old password should no longer work")
	}
	if _, err := svc.Login(ctx, "c@example.com", "new password 1"); err != nil {
		t.Errorf("new password should work: %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email: "v@example.com", Password: "a strong password", FirstName: "V", LastName: "T",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.ValidateAccessToken(ctx, result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if user.ID != result.User.ID {
		t.Error("token resolved to a different user")
	}

	if _, err := svc.ValidateAccessToken(ctx, "garbage"); err == nil {
		t.Error("expected garbage token to be rejected")
	}
}
