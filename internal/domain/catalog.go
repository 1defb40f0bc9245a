package domain

import (
	"strings"
	"time"

	apperrors "github.com/spec-kit/servicedesk/pkg/util"
)

// Category groups services in the catalog.
type Category struct {
	Entity
	Name      string
	CreatedBy string
	CreatedAt time.Time
}

// NewCategory requires a non-blank name.
func NewCategory(name, createdBy string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("name", name)
	}
	return &Category{
		Entity:    newEntity(""),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: now,
	}, nil
}

// Service is a billable item of the catalog. Price is kept in cents.
type Service struct {
	Entity
	CategoryID string
	CreatedBy  string
	Name       string
	Price      Money
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// ServiceDetails is the editable part of a service; Price is a decimal string.
type ServiceDetails struct {
	CategoryID string
	Name       string
	Price      string
}

// NewService parses the price in cents and validates the name.
func NewService(createdBy string, details ServiceDetails, now time.Time) (*Service, error) {
	service := &Service{
		Entity:    newEntity(""),
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	if err := service.apply(details); err != nil {
		return nil, err
	}
	service.UpdatedAt = now
	return service, nil
}

// Update replaces the editable details. Billing items already issued keep
// their own copy of the old price.
func (s *Service) Update(details ServiceDetails, now time.Time) error {
	if s.IsDeleted() {
		return alreadyDeleted("service", s.ID)
	}
	if err := s.apply(details); err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}

func (s *Service) apply(details ServiceDetails) error {
	name := strings.TrimSpace(details.Name)
	if name == "" {
		return apperrors.NewInvalidInput("name", details.Name)
	}
	if details.CategoryID == "" {
		return apperrors.NewInvalidInput("category_id", details.CategoryID)
	}
	price, err := ParseMoney(details.Price, true)
	if err != nil {
		return err
	}
	if price.Cents() < 0 {
		return apperrors.NewInvalidInput("price", details.Price)
	}
	s.Name = name
	s.CategoryID = details.CategoryID
	s.Price = price
	return nil
}

func (s *Service) IsDeleted() bool {
	return s.DeletedAt != nil
}

// SoftDelete stamps DeletedAt once.
func (s *Service) SoftDelete(now time.Time) error {
	if s.IsDeleted() {
		return alreadyDeleted("service", s.ID)
	}
	s.DeletedAt = &now
	s.UpdatedAt = now
	return nil
}
