package service

import (
	"context"
	"fmt"
	"time"

	"product-catalog/internal/audit"
	"product-catalog/internal/domain"
	"product-catalog/internal/repository"
	"product-catalog/internal/validation"

	"github.com/google/uuid"
)

// UnknownActor is stamped as created-by/updated-by when the caller carries no
// identity.
const UnknownActor = "Unknown"

// ProductDTO is the wire shape for product records. ID is server-assigned on
// create; the created/updated fields are output-only and ignored on inbound
// mapping.
type ProductDTO struct {
	ID          uuid.UUID  `json:"id,omitempty"`
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description" validate:"required,max=500"`
	Price       float64    `json:"price" validate:"gte=0"`
	Category    string     `json:"category" validate:"required"`
	Stock       int        `json:"stock" validate:"gte=0"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedBy   string     `json:"updated_by,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ProductService defines the business operations over the catalog. Failures
// surface as typed errors: *validation.FieldErrors for rule violations and
// repository.ErrProductNotFound for missing records.
type ProductService interface {
	GetAll(ctx context.Context) ([]ProductDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Add(ctx context.Context, dto *ProductDTO, actor string) error
	Update(ctx context.Context, dto *ProductDTO, actor string) error
	Delete(ctx context.Context, id uuid.UUID, actor string) error
}

type productService struct {
	productRepo repository.ProductRepository
	auditor     audit.Recorder
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, auditor audit.Recorder) ProductService {
	return &productService{
		productRepo: productRepo,
		auditor:     auditor,
	}
}

// GetAll returns every product in transfer shape. An empty store yields an
// empty slice, never an error.
func (s *productService) GetAll(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toDTO(product))
	}
	return dtos, nil
}

// GetByID returns the product in transfer shape, or (nil, nil) when no record
// exists. Absence is a valid outcome here; the boundary turns it into a 404.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	dto := toDTO(product)
	return &dto, nil
}

// Add validates the payload, stamps identity and creation time, persists the
// record and emits a "Create" audit line. The generated identifier is written
// back onto the caller's dto.
func (s *productService) Add(ctx context.Context, dto *ProductDTO, actor string) error {
	if fieldErrs := validation.Check(dto); fieldErrs != nil {
		return fieldErrs
	}

	product := toEntity(dto)
	product.ID = uuid.New()
	product.CreatedBy = actorOrUnknown(actor)
	product.CreatedAt = time.Now().UTC()

	if err := s.productRepo.Insert(ctx, product); err != nil {
		return err
	}
	dto.ID = product.ID

	// Audit only after the insert committed, so the trail never references
	// state that was not actually persisted.
	s.auditor.Record(ctx, "Create", "Product", product.ID.String(), product.CreatedBy)

	return nil
}

// Update validates the payload, merges it onto the existing record preserving
// the creation stamp, persists and emits an "Update" audit line.
func (s *productService) Update(ctx context.Context, dto *ProductDTO, actor string) error {
	if fieldErrs := validation.Check(dto); fieldErrs != nil {
		return fieldErrs
	}

	existing, err := s.productRepo.FindByID(ctx, dto.ID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	existing.Name = dto.Name
	existing.Description = dto.Description
	existing.Price = dto.Price
	existing.Category = dto.Category
	existing.Stock = dto.Stock
	existing.UpdatedBy = actorOrUnknown(actor)
	existing.UpdatedAt = &now

	if err := s.productRepo.Replace(ctx, existing); err != nil {
		return err
	}

	s.auditor.Record(ctx, "Update", "Product", existing.ID.String(), existing.UpdatedBy)

	return nil
}

// Delete removes the identified record and emits a "Delete" audit line.
func (s *productService) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.auditor.Record(ctx, "Delete", "Product", id.String(), actorOrUnknown(actor))

	return nil
}

// toDTO maps a stored entity to its transfer shape.
func toDTO(product *domain.Product) ProductDTO {
	createdAt := product.CreatedAt
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Stock:       product.Stock,
		CreatedBy:   product.CreatedBy,
		CreatedAt:   &createdAt,
		UpdatedBy:   product.UpdatedBy,
		UpdatedAt:   product.UpdatedAt,
	}
}

// toEntity maps an inbound dto to a new entity. Creation and update stamps
// are deliberately omitted: the service assigns them, never the caller.
func toEntity(dto *ProductDTO) *domain.Product {
	return &domain.Product{
		ID:          dto.ID,
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Category:    dto.Category,
		Stock:       dto.Stock,
	}
}

func actorOrUnknown(actor string) string {
	if actor == "" {
		return UnknownActor
	}
	return actor
}
