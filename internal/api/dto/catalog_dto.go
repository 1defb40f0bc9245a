package dto

import (
	"time"

	"github.com/spec-kit/servicedesk/internal/domain"
)

// CreateCategoryRequest payload for POST /categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

// ServiceRequest payload for POST /services and PUT /services/:id. Price
// accepts a comma or dot decimal separator.
type ServiceRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
	Name       string `json:"name" validate:"required,max=120"`
	Price      string `json:"price" validate:"required"`
}

// Details converts the request.
func (r ServiceRequest) Details() domain.ServiceDetails {
	return domain.ServiceDetails{CategoryID: r.CategoryID, Name: r.Name, Price: r.Price}
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedBy: category.CreatedBy,
		CreatedAt: category.CreatedAt,
	}
}

// ServiceResponse exposes price both in cents and formatted.
type ServiceResponse struct {
	ID             string     `json:"id"`
	CategoryID     string     `json:"category_id"`
	Name           string     `json:"name"`
	PriceCents     int64      `json:"price_cents"`
	PriceFormatted string     `json:"price_formatted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

func NewServiceResponse(service *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:             service.ID,
		CategoryID:     service.CategoryID,
		Name:           service.Name,
		PriceCents:     service.Price.Cents(),
		PriceFormatted: service.Price.Format(),
		CreatedAt:      service.CreatedAt,
		UpdatedAt:      service.UpdatedAt,
		DeletedAt:      service.DeletedAt,
	}
}
