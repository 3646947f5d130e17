package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrOrgCodeConflict      = errors.New("organization code already exists")
	ErrInvalidOrgStatus     = errors.New("invalid organization status")
	ErrInvalidLogo          = errors.New("unsupported logo upload")
)

const (
	LogoVariantDark  = "dark"
	LogoVariantLight = "light"

	maxLogoBytes = int64(2 * 1024 * 1024)
)

var allowedLogoMIMEs = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type OrganizationCreateInput struct {
	OrgName       string
	OrgCode       string
	DarkLogo      *string
	LightLogo     *string
	Plans         []string
	Users         []string
	Status        *string
	SignupEnabled *bool
}

type LogoUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

type OrganizationService struct {
	orgs    ports.OrganizationRepository
	storage ports.ObjectStorage
	bucket  string
}

func NewOrganizationService(orgs ports.OrganizationRepository, storage ports.ObjectStorage, bucket string) *OrganizationService {
	return &OrganizationService{
		orgs:    orgs,
		storage: storage,
		bucket:  strings.TrimSpace(bucket),
	}
}

// Create inserts a new organization. The pre-check on org_code gives a clean
// error for the common case; the unique constraint in the table is what
// actually rules out a racing create with the same code.
func (s *OrganizationService) Create(ctx context.Context, in OrganizationCreateInput) (*domain.Organization, error) {
	code := strings.TrimSpace(in.OrgCode)
	name := strings.TrimSpace(in.OrgName)
	if code == "" || name == "" {
		return nil, errors.New("org_name and org_code are required")
	}

	status := domain.OrgStatusActive
	if in.Status != nil {
		status = *in.Status
	}
	if !domain.ValidOrgStatus(status) {
		return nil, ErrInvalidOrgStatus
	}
	signupEnabled := true
	if in.SignupEnabled != nil {
		signupEnabled = *in.SignupEnabled
	}

	if _, err := s.orgs.FindByCode(ctx, code); err == nil {
		return nil, ErrOrgCodeConflict
	} else if !isNotFound(err) {
		return nil, err
	}

	org, err := s.orgs.Create(ctx, domain.Organization{
		ID:            uuid.New(),
		OrgName:       name,
		OrgCode:       code,
		DarkLogo:      in.DarkLogo,
		LightLogo:     in.LightLogo,
		Plans:         dedupe(in.Plans),
		Users:         dedupe(in.Users),
		Status:        status,
		SignupEnabled: signupEnabled,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrOrgCodeConflict
		}
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) GetByCode(ctx context.Context, code string) (*domain.Organization, error) {
	org, err := s.orgs.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.orgs.List(ctx)
}

func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, update ports.OrganizationUpdate) (*domain.Organization, error) {
	if update.Status != nil && !domain.ValidOrgStatus(*update.Status) {
		return nil, ErrInvalidOrgStatus
	}
	if update.OrgCode != nil {
		existing, err := s.orgs.FindByCode(ctx, *update.OrgCode)
		switch {
		case err == nil && existing.ID != id:
			return nil, ErrOrgCodeConflict
		case err != nil && !isNotFound(err):
			return nil, err
		}
	}
	if update.Plans != nil {
		deduped := dedupe(*update.Plans)
		update.Plans = &deduped
	}
	if update.Users != nil {
		deduped := dedupe(*update.Users)
		update.Users = &deduped
	}

	org, err := s.orgs.Update(ctx, id, update)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, ErrOrganizationNotFound
		case isUniqueViolation(err):
			return nil, ErrOrgCodeConflict
		default:
			return nil, err
		}
	}
	return org, nil
}

// Delete removes only the organization row. References held elsewhere
// (user_account.organization_id, membership lists) are left as-is; that
// matches the upstream behavior and is visible to callers.
func (s *OrganizationService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.orgs.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrganizationNotFound
	}
	return nil
}

func (s *OrganizationService) AddUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return s.mutateSet(ctx, id, userIDs, s.orgs.AddUsers)
}

func (s *OrganizationService) RemoveUsers(ctx context.Context, id uuid.UUID, userIDs []string) (*domain.Organization, error) {
	return s.mutateSet(ctx, id, userIDs, s.orgs.RemoveUsers)
}

func (s *OrganizationService) AddPlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return s.mutateSet(ctx, id, planIDs, s.orgs.AddPlans)
}

func (s *OrganizationService) RemovePlans(ctx context.Context, id uuid.UUID, planIDs []string) (*domain.Organization, error) {
	return s.mutateSet(ctx, id, planIDs, s.orgs.RemovePlans)
}

func (s *OrganizationService) mutateSet(
	ctx context.Context,
	id uuid.UUID,
	ids []string,
	op func(context.Context, uuid.UUID, []string) (*domain.Organization, error),
) (*domain.Organization, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return s.Get(ctx, id)
	}
	org, err := op(ctx, id, ids)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return org, nil
}

// UploadLogo stores the logo object and records its URL on the organization.
func (s *OrganizationService) UploadLogo(ctx context.Context, id uuid.UUID, variant string, upload LogoUpload) (*domain.Organization, error) {
	if variant != LogoVariantDark && variant != LogoVariantLight {
		return nil, ErrInvalidLogo
	}
	if s.storage == nil || s.bucket == "" {
		return nil, errors.New("logo storage not configured")
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	ext, ok := allowedLogoMIMEs[contentType]
	if !ok {
		return nil, ErrInvalidLogo
	}
	if upload.Size <= 0 || upload.Size > maxLogoBytes {
		return nil, ErrInvalidLogo
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	objectName := path.Join("organizations", id.String(), fmt.Sprintf("%s-logo%s", variant, ext))
	url, err := s.storage.Upload(ctx, s.bucket, objectName, contentType, upload.Reader, upload.Size)
	if err != nil {
		return nil, err
	}

	update := ports.OrganizationUpdate{}
	if variant == LogoVariantDark {
		update.DarkLogo = &url
	} else {
		update.LightLogo = &url
	}
	return s.Update(ctx, id, update)
}

func dedupe(ids []string) domain.StringList {
	seen := make(map[string]struct{}, len(ids))
	out := make(domain.StringList, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
