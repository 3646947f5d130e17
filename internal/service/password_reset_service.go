package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

// ErrInvalidResetToken is returned for unknown, used and expired tokens alike
// so the endpoint cannot be used as an oracle; the distinction is only logged.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

type PasswordResetService struct {
	tokens      ports.PasswordResetRepository
	users       ports.UserRepository
	credentials ports.CredentialRepository
	mailer      ResetMailer
	frontendURL string
	ttl         time.Duration
	now         func() time.Time
}

const DefaultResetTTL = 24 * time.Hour

func NewPasswordResetService(
	tokens ports.PasswordResetRepository,
	users ports.UserRepository,
	credentials ports.CredentialRepository,
	mailer ResetMailer,
	frontendURL string,
	ttl time.Duration,
) *PasswordResetService {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &PasswordResetService{
		tokens:      tokens,
		users:       users,
		credentials: credentials,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Request issues a reset token for the account behind the email and mails the
// reset link. Unknown emails succeed silently so the endpoint does not reveal
// which addresses have accounts.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	normalized := normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if isNotFound(err) {
			log.Printf("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return err
	}
	now := s.now()
	record, err := s.tokens.Create(ctx, domain.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		Email:     normalized,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}

	if s.mailer != nil {
		link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, record.Token)
		if err := s.mailer.SendPasswordReset(ctx, record.Email, link); err != nil {
			log.Printf("password reset: send mail to user %s: %v", user.ID, err)
		}
	}
	return nil
}

// Validate returns the token record when it is still consumable.
func (s *PasswordResetService) Validate(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	if record.Used {
		log.Printf("password reset: token for user %s already used", record.UserID)
		return nil, ErrInvalidResetToken
	}
	if !record.ExpiresAt.After(s.now()) {
		log.Printf("password reset: token for user %s expired", record.UserID)
		return nil, ErrInvalidResetToken
	}
	return record, nil
}

// Reset consumes the token and sets the new password. The conditional
// mark-used runs before the password write so two racing resets produce
// exactly one winner.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	record, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordTooWeak, err)
	}

	ok, err := s.tokens.MarkUsed(ctx, record.Token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidResetToken
	}

	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}
	ok, err = s.credentials.UpdatePassword(ctx, record.UserID, hash, salt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

// Sweep deletes expired tokens, used or not, and reports how many went.
func (s *PasswordResetService) Sweep(ctx context.Context) (int64, error) {
	count, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("password reset: swept %d expired tokens", count)
	}
	return count, nil
}
