package service

import (
	"context"
	"log"
	"time"

	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

const (
	DefaultGuestMaxAge    = 24 * time.Hour
	defaultCleanupPageLen = 200
)

// GuestCleanupService removes guest accounts once they outlive the configured
// age. It is idempotent and safe to run alongside normal traffic; it only ever
// deletes rows matching the age predicate at execution time.
type GuestCleanupService struct {
	users       ports.UserRepository
	credentials ports.CredentialRepository
	maxAge      time.Duration
	pageLen     int
	now         func() time.Time
}

func NewGuestCleanupService(users ports.UserRepository, credentials ports.CredentialRepository, maxAge time.Duration) *GuestCleanupService {
	if maxAge <= 0 {
		maxAge = DefaultGuestMaxAge
	}
	return &GuestCleanupService{
		users:       users,
		credentials: credentials,
		maxAge:      maxAge,
		pageLen:     defaultCleanupPageLen,
		now:         time.Now,
	}
}

// Run pages through the directory and deletes expired guests, returning the
// number of accounts removed. A failed deletion is logged and skipped, never
// retried within the run.
func (s *GuestCleanupService) Run(ctx context.Context) (int, error) {
	now := s.now()
	deleted := 0
	offset := 0

	for {
		users, err := s.users.List(ctx, s.pageLen, offset)
		if err != nil {
			return deleted, err
		}
		if len(users) == 0 {
			break
		}

		removedInPage := 0
		for i := range users {
			user := &users[i]
			if !user.IsGuest() || now.Sub(user.CreatedAt) <= s.maxAge {
				continue
			}
			ok, err := s.credentials.DeleteAccount(ctx, user.ID)
			if err != nil {
				log.Printf("guest cleanup: delete %s: %v", user.ID, err)
				continue
			}
			if !ok {
				log.Printf("guest cleanup: account %s already gone", user.ID)
				continue
			}
			deleted++
			removedInPage++
		}

		if len(users) < s.pageLen {
			break
		}
		// Deleted rows shift later pages back, so only advance past the
		// rows that survived this page.
		offset += len(users) - removedInPage
	}

	if deleted > 0 {
		log.Printf("guest cleanup: deleted %d expired guest accounts", deleted)
	}
	return deleted, nil
}
