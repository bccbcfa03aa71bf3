package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohits-web03/recipeshare/internal/logging"
	"github.com/rohits-web03/recipeshare/internal/models"
	"github.com/rohits-web03/recipeshare/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgUsernameTaken = "That username is taken. Please choose a different one."
	msgEmailTaken    = "That email is taken. Please choose a different one."
)

type RegisterInput struct {
	Username        string `form:"username" validate:"required,min=2,max=20"`
	Email           string `form:"email" validate:"required,email,max=120"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `form:"email" validate:"required,email,max=120"`
	Password string `form:"password" validate:"required"`
	Remember bool   `form:"remember_me"`
}

type AccountInput struct {
	Username string `form:"username" validate:"required,min=2,max=20"`
	Email    string `form:"email" validate:"required,email,max=120"`
	AboutMe  string `form:"about_me" validate:"max=140"`
}

type ResetRequestInput struct {
	Email string `form:"email" validate:"required,email,max=120"`
}

type ResetPasswordInput struct {
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// AccountService owns the credential store use cases.
type AccountService struct {
	users    repositories.UserRepository
	tokens   *TokenIssuer
	notifier Notifier
	uploader *Uploader
	log      logging.Logger
	hashCost int
}

func NewAccountService(users repositories.UserRepository, tokens *TokenIssuer, notifier Notifier, uploader *Uploader, log logging.Logger) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		uploader: uploader,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if ve := check(in); ve != nil {
		return nil, ve
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		ImageFile:    models.DefaultImage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, s.duplicateError(ctx, in.Username, in.Email, nil)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate never says which of email or password was wrong.
func (s *AccountService) Authenticate(ctx context.Context, in LoginInput) (*models.User, error) {
	if ve := check(in); ve != nil {
		return nil, ve
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) UserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// UserByEmail backs external sign-in; it never creates accounts.
func (s *AccountService) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// UpdateAccount overwrites the actor's profile. Uniqueness is checked only
// for values that differ from the current ones.
func (s *AccountService) UpdateAccount(ctx context.Context, actor *models.User, in AccountInput, avatar *Upload) (*models.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	ve := &ValidationError{}
	ve.Merge(check(in))
	ve.Merge(checkImage("picture", avatar))
	if !ve.Empty() {
		return nil, ve
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, actor); err != nil {
		return nil, err
	}

	updated := *actor
	updated.Username = in.Username
	updated.Email = in.Email
	updated.AboutMe = in.AboutMe

	if avatar != nil {
		name, err := s.uploader.Save(ctx, CategoryProfile, *avatar)
		if err != nil {
			if errors.Is(err, ErrUnsupportedImage) {
				return nil, fieldError("picture", "Could not read the image file.")
			}
			return nil, err
		}
		updated.ImageFile = name
	}

	if err := s.users.UpdateProfile(ctx, &updated); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, s.duplicateError(ctx, in.Username, in.Email, actor)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.log.Info(ctx, "account updated", "user_id", updated.ID)
	return &updated, nil
}

// RequestPasswordReset behaves the same whether or not the address belongs
// to an account. Store and transport failures are logged, not returned.
func (s *AccountService) RequestPasswordReset(ctx context.Context, in ResetRequestInput, linkFor func(token string) string) error {
	if ve := check(in); ve != nil {
		return ve
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.log.Error(ctx, "reset request lookup failed", "err", err)
		}
		return nil
	}

	token, err := s.tokens.IssueResetToken(user.ID)
	if err != nil {
		s.log.Error(ctx, "failed to issue reset token", "user_id", user.ID, "err", err)
		return nil
	}

	if err := s.notifier.SendPasswordReset(ctx, user, linkFor(token)); err != nil {
		s.log.Warn(ctx, "failed to send reset email", "user_id", user.ID, "err", err)
	}
	return nil
}

// CheckResetToken resolves a reset token to its user.
func (s *AccountService) CheckResetToken(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.VerifyResetToken(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	return user, err
}

func (s *AccountService) ResetPassword(ctx context.Context, token string, in ResetPasswordInput) error {
	user, err := s.CheckResetToken(ctx, token)
	if err != nil {
		return err
	}
	if ve := check(in); ve != nil {
		return ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// checkUnique is the read-time check; the unique indexes remain the
// authority (see duplicateError). Values equal to current's are skipped.
func (s *AccountService) checkUnique(ctx context.Context, username, email string, current *models.User) error {
	ve := &ValidationError{}

	if current == nil || username != current.Username {
		switch _, err := s.users.FindByUsername(ctx, username); {
		case err == nil:
			ve.Add("username", msgUsernameTaken)
		case !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("check username: %w", err)
		}
	}
	if current == nil || email != current.Email {
		switch _, err := s.users.FindByEmail(ctx, email); {
		case err == nil:
			ve.Add("email", msgEmailTaken)
		case !errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("check email: %w", err)
		}
	}

	if ve.Empty() {
		return nil
	}
	return ve
}

// duplicateError turns a unique-index violation at write time into field errors.
func (s *AccountService) duplicateError(ctx context.Context, username, email string, current *models.User) error {
	err := s.checkUnique(ctx, username, email, current)
	if _, ok := AsValidation(err); ok {
		return err
	}
	return fieldError("username", "That username or email is already in use.")
}
