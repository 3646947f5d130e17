package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

var (
	// ErrInvalidCredentials covers unknown email, inactive account and wrong
	// password alike; callers cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyUsed   = errors.New("email already registered")
	ErrPasswordTooWeak    = errors.New("password does not meet requirements")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidGoogleToken = errors.New("invalid google token")
	ErrUnauthorized       = errors.New("invalid or expired token")
)

const (
	defaultRole            = "pending"
	defaultProfileImageURL = "/user.png"
)

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ProfileImageURL string
	DateOfBirth     *time.Time
	Phone           *string
	UserType        string
	OrganizationID  *string
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type IdentityService struct {
	credentials ports.CredentialRepository
	users       ports.UserRepository
	jwt         *util.JWTManager
	googleAud   string
	now         func() time.Time
}

func NewIdentityService(credentials ports.CredentialRepository, users ports.UserRepository, jwtManager *util.JWTManager, googleAud string) *IdentityService {
	return &IdentityService{
		credentials: credentials,
		users:       users,
		jwt:         jwtManager,
		googleAud:   googleAud,
		now:         time.Now,
	}
}

func (s *IdentityService) RegisterWithEmail(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := util.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordTooWeak, err)
	}

	hash, salt, err := util.DerivePassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.createAccount(ctx, in, hash, salt)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

// RegisterGuest creates an ephemeral account with a throwaway credential.
// Guests sign in through the returned token only and are swept after 24h.
func (s *IdentityService) RegisterGuest(ctx context.Context, name, email string) (*AuthResult, error) {
	password, err := util.GenerateResetToken()
	if err != nil {
		return nil, err
	}
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, err
	}

	in := SignupInput{
		Name:     name,
		Email:    email,
		UserType: domain.UserTypeGuest,
	}
	user, err := s.createAccount(ctx, in, hash, salt)
	if err != nil {
		return nil, err
	}
	return s.issueToken(user)
}

func (s *IdentityService) createAccount(ctx context.Context, in SignupInput, hash, salt []byte) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	imageURL := in.ProfileImageURL
	if imageURL == "" {
		imageURL = defaultProfileImageURL
	}
	userType := in.UserType
	if userType == "" {
		userType = domain.UserTypeIndividual
	}

	user, err := s.credentials.CreateAccount(ctx, ports.NewAccount{
		Email:           email,
		PasswordHash:    hash,
		PasswordSalt:    salt,
		Name:            strings.TrimSpace(in.Name),
		Role:            defaultRole,
		ProfileImageURL: imageURL,
		UserType:        userType,
		DateOfBirth:     in.DateOfBirth,
		Phone:           in.Phone,
		OrganizationID:  in.OrganizationID,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) LoginWithEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	cred, err := s.credentials.FindActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, cred.PasswordSalt, cred.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, cred.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	s.touch(ctx, user.ID)
	return s.issueToken(user)
}

func (s *IdentityService) LoginWithAPIKey(ctx context.Context, apiKey string) (*AuthResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	s.touch(ctx, user.ID)
	return s.issueToken(user)
}

func (s *IdentityService) LoginWithGoogle(ctx context.Context, idTok string) (*AuthResult, error) {
	payload, err := idtoken.Validate(ctx, idTok, s.googleAud)
	if err != nil {
		return nil, ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidGoogleToken
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.touch(ctx, user.ID)
		return s.issueToken(user)
	case isNotFound(err):
		// First Google sign-in: provision an account with an unguessable
		// local credential so email login stays unusable until a reset.
		password, err := util.GenerateResetToken()
		if err != nil {
			return nil, err
		}
		hash, salt, err := util.DerivePassword(password)
		if err != nil {
			return nil, err
		}
		created, err := s.createAccount(ctx, SignupInput{Name: name, Email: email}, hash, salt)
		if err != nil {
			return nil, err
		}
		return s.issueToken(created)
	default:
		return nil, err
	}
}

// Authenticate resolves a bearer JWT to its user for request middleware.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *IdentityService) ChangePassword(ctx context.Context, id uuid.UUID, current, newPassword string) error {
	cred, err := s.credentials.FindActiveByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidCredentials
		}
		return err
	}
	if !util.VerifyPassword(current, cred.PasswordSalt, cred.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrPasswordTooWeak, err)
	}
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.credentials.UpdatePassword(ctx, id, hash, salt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

// ChangeEmail rewrites the address on both rows through the credential
// repository's single transaction.
func (s *IdentityService) ChangeEmail(ctx context.Context, id uuid.UUID, newEmail string) error {
	email := normalizeEmail(newEmail)
	if email == "" {
		return ErrAccountNotFound
	}
	ok, err := s.credentials.UpdateEmail(ctx, id, email)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailAlreadyUsed
		}
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

func (s *IdentityService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	ok, err := s.credentials.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	return nil
}

func (s *IdentityService) GenerateAPIKey(ctx context.Context, id uuid.UUID) (string, error) {
	key, err := util.GenerateAPIKey()
	if err != nil {
		return "", err
	}
	ok, err := s.users.SetAPIKey(ctx, id, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrAccountNotFound
	}
	return key, nil
}

func (s *IdentityService) issueToken(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email, user.Role, user.UserType)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *IdentityService) touch(ctx context.Context, id uuid.UUID) {
	if err := s.users.TouchLastActive(ctx, id); err != nil {
		log.Printf("identity: touch last_active for %s: %v", id, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
