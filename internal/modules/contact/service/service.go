package contact

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kunal592/MD-BlogApp/internal/entity"
	"github.com/kunal592/MD-BlogApp/internal/modules/contact/dto"
	"github.com/kunal592/MD-BlogApp/internal/modules/contact/repository"
	"github.com/kunal592/MD-BlogApp/pkg/apperror"
	commonDto "github.com/kunal592/MD-BlogApp/pkg/dto"
)

const defaultPageSize = 20

type ContactService interface {
	Create(ctx context.Context, req dto.CreateContactRequest) (*entity.ContactRequest, error)
	List(ctx context.Context, filter dto.ContactFilter) (*commonDto.Paginated[entity.ContactRequest], error)
	SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (*entity.ContactRequest, error)
}

type contactService struct {
	repo   repository.ContactRepository
	policy *bluemonday.Policy
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, policy: bluemonday.StrictPolicy()}
}

// Create accepts anonymous submissions; markup is stripped before storing.
func (s *contactService) Create(ctx context.Context, req dto.CreateContactRequest) (*entity.ContactRequest, error) {
	contact := &entity.ContactRequest{
		Name:    s.plain(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: s.plain(req.Message),
	}
	if contact.Name == "" || contact.Email == "" || contact.Message == "" {
		return nil, fmt.Errorf("%w: name, email, and message are required", apperror.ErrInvalidInput)
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) plain(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

func (s *contactService) List(ctx context.Context, filter dto.ContactFilter) (*commonDto.Paginated[entity.ContactRequest], error) {
	filter.Normalize(defaultPageSize)

	requests, total, err := s.repo.List(ctx, filter.Resolved, filter.Limit, filter.Offset())
	if err != nil {
		return nil, err
	}

	return &commonDto.Paginated[entity.ContactRequest]{
		Items: requests,
		Meta:  commonDto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *contactService) SetResolved(ctx context.Context, id uuid.UUID, resolved bool) (*entity.ContactRequest, error) {
	if err := s.repo.SetResolved(ctx, id, resolved); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}
