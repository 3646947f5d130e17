package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

// fakeAccountStore implements both CredentialRepository and UserRepository
// over the same in-memory rows, mirroring the paired auth/profile tables.
type fakeAccountStore struct {
	mu    sync.Mutex
	users []domain.User
	creds map[uuid.UUID]domain.Credential

	deleteErr        map[uuid.UUID]error
	createProfileErr error
	updateEmailErr   error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		creds:     make(map[uuid.UUID]domain.Credential),
		deleteErr: make(map[uuid.UUID]error),
	}
}

func (f *fakeAccountStore) seed(user domain.User, password string) domain.User {
	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		panic(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users = append(f.users, user)
	f.creds[user.ID] = domain.Credential{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: hash,
		PasswordSalt: salt,
		Active:       true,
	}
	return user
}

func (f *fakeAccountStore) CreateAccount(ctx context.Context, acct ports.NewAccount) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email == acct.Email {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "idx_auth_email"}
		}
	}
	user := domain.User{
		ID:              uuid.New(),
		Name:            acct.Name,
		Email:           acct.Email,
		Role:            acct.Role,
		ProfileImageURL: acct.ProfileImageURL,
		UserType:        acct.UserType,
		DateOfBirth:     acct.DateOfBirth,
		Phone:           acct.Phone,
		OrganizationID:  acct.OrganizationID,
		CreatedAt:       time.Now(),
	}

	// The credential lands first, like the repository's transaction; a
	// profile failure must roll it back so neither row survives.
	f.creds[user.ID] = domain.Credential{
		ID:           user.ID,
		Email:        acct.Email,
		PasswordHash: acct.PasswordHash,
		PasswordSalt: acct.PasswordSalt,
		Active:       true,
	}
	if f.createProfileErr != nil {
		delete(f.creds, user.ID)
		return nil, f.createProfileErr
	}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *fakeAccountStore) FindActiveByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cred := range f.creds {
		if cred.Email == email && cred.Active {
			c := cred
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccountStore) FindActiveByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cred, ok := f.creds[id]
	if !ok || !cred.Active {
		return nil, sql.ErrNoRows
	}
	c := cred
	return &c, nil
}

func (f *fakeAccountStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cred, ok := f.creds[id]
	if !ok {
		return false, nil
	}
	cred.PasswordHash = passwordHash
	cred.PasswordSalt = passwordSalt
	f.creds[id] = cred
	return true, nil
}

// UpdateEmail mutates the credential and profile together or not at all,
// matching the repository's transaction.
func (f *fakeAccountStore) UpdateEmail(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateEmailErr != nil {
		return false, f.updateEmailErr
	}
	for uid, cred := range f.creds {
		if uid != id && cred.Email == email {
			return false, &pgconn.PgError{Code: "23505", ConstraintName: "idx_auth_email"}
		}
	}
	cred, ok := f.creds[id]
	if !ok {
		return false, nil
	}
	cred.Email = email
	f.creds[id] = cred
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].Email = email
			break
		}
	}
	return true, nil
}

func (f *fakeAccountStore) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return false, err
	}
	found := false
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	delete(f.creds, id)
	return true, nil
}

func (f *fakeAccountStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccountStore) FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].APIKey != nil && *f.users[i].APIKey == apiKey {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccountStore) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.users) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.users) {
		end = len(f.users)
	}
	page := make([]domain.User, end-offset)
	copy(page, f.users[offset:end])
	return page, nil
}

func (f *fakeAccountStore) SetAPIKey(ctx context.Context, id uuid.UUID, apiKey string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			key := apiKey
			f.users[i].APIKey = &key
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountStore) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			f.users[i].LastActiveAt = time.Now()
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeResetStore struct {
	mu     sync.Mutex
	tokens map[string]domain.PasswordResetToken
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{tokens: make(map[string]domain.PasswordResetToken)}
}

func (f *fakeResetStore) Create(ctx context.Context, token domain.PasswordResetToken) (*domain.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, existing := range f.tokens {
		if existing.UserID == token.UserID && !existing.Used {
			delete(f.tokens, key)
		}
	}
	f.tokens[token.Token] = token
	t := token
	return &t, nil
}

func (f *fakeResetStore) FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	r := record
	return &r, nil
}

func (f *fakeResetStore) MarkUsed(ctx context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.tokens[token]
	if !ok || record.Used {
		return false, nil
	}
	record.Used = true
	f.tokens[token] = record
	return true, nil
}

func (f *fakeResetStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for key, record := range f.tokens {
		if record.ExpiresAt.Before(now) {
			delete(f.tokens, key)
			count++
		}
	}
	return count, nil
}

type fakeOrgStore struct {
	mu   sync.Mutex
	orgs map[uuid.UUID]domain.Organization
}

func newFakeOrgStore() *fakeOrgStore {
	return &fakeOrgStore{orgs: make(map[uuid.UUID]domain.Organization)}
}

func (f *fakeOrgStore) Create(ctx context.Context, org domain.Organization) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.orgs {
		if existing.OrgCode == org.OrgCode {
			return nil, &pgconn.PgError{Code: "23505", ConstraintName: "organization_org_code_key"}
		}
	}
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt
	f.orgs[org.ID] = org
	o := org
	return &o, nil
}

func (f *fakeOrgStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	o := org
	return &o, nil
}

func (f *fakeOrgStore) FindByCode(ctx context.Context, code string) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, org := range f.orgs {
		if org.OrgCode == code {
			o := org
			return &o, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOrgStore) List(ctx context.Context) ([]domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Organization, 0, len(f.orgs))
	for _, org := range f.orgs {
		out = append(out, org)
	}
	return out, nil
}

func (f *fakeOrgStore) Update(ctx context.Context, id uuid.UUID, update ports.OrganizationUpdate) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if update.OrgName != nil {
		org.OrgName = *update.OrgName
	}
	if update.OrgCode != nil {
		org.OrgCode = *update.OrgCode
	}
	if update.DarkLogo != nil {
		org.DarkLogo = update.DarkLogo
	}
	if update.LightLogo != nil {
		org.LightLogo = update.LightLogo
	}
	if update.Plans != nil {
		org.Plans = *update.Plans
	}
	if update.Users != nil {
		org.Users = *update.Users
	}
	if update.Status != nil {
		org.Status = *update.Status
	}
	if update.SignupEnabled != nil {
		org.SignupEnabled = *update.SignupEnabled
	}
	org.UpdatedAt = time.Now()
	f.orgs[id] = org
	o := org
	return &o, nil
}

func (f *fakeOrgStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orgs[id]; !ok {
		return false, nil
	}
	delete(f.orgs, id)
	return true, nil
}

func (f *fakeOrgStore) AddUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return f.mutate(id, func(org *domain.Organization) {
		org.Users = setUnion(org.Users, userIDs)
	})
}

func (f *fakeOrgStore) RemoveUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return f.mutate(id, func(org *domain.Organization) {
		org.Users = setDifference(org.Users, userIDs)
	})
}

func (f *fakeOrgStore) AddPlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return f.mutate(id, func(org *domain.Organization) {
		org.Plans = setUnion(org.Plans, planIDs)
	})
}

func (f *fakeOrgStore) RemovePlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return f.mutate(id, func(org *domain.Organization) {
		org.Plans = setDifference(org.Plans, planIDs)
	})
}

func (f *fakeOrgStore) mutate(id uuid.UUID, apply func(*domain.Organization)) (*domain.Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	apply(&org)
	org.UpdatedAt = time.Now()
	f.orgs[id] = org
	o := org
	return &o, nil
}

func setUnion(current domain.StringList, add []string) domain.StringList {
	out := make(domain.StringList, len(current))
	copy(out, current)
	for _, id := range add {
		if !out.Contains(id) {
			out = append(out, id)
		}
	}
	return out
}

func setDifference(current domain.StringList, remove []string) domain.StringList {
	drop := make(map[string]struct{}, len(remove))
	for _, id := range remove {
		drop[id] = struct{}{}
	}
	out := make(domain.StringList, 0, len(current))
	for _, id := range current {
		if _, gone := drop[id]; !gone {
			out = append(out, id)
		}
	}
	return out
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	links []string
	err   error
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	f.links = append(f.links, link)
	return nil
}

// fakeObjectStorage records uploads and hands back a deterministic URL.
type fakeObjectStorage struct {
	mu      sync.Mutex
	objects []string
	err     error
}

func (f *fakeObjectStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.objects = append(f.objects, objectName)
	return fmt.Sprintf("https://cdn.example.com/%s/%s", bucket, objectName), nil
}
