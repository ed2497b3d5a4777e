package reports

import (
	"context"

	"breadroute/internal/core/apperror"
)

// Repository is the read-side storage contract.
type Repository interface {
	SalesSummary(ctx context.Context, filter Filter) (*SalesSummary, error)

	// ProductsSold returns rows ordered by sales total descending.
	ProductsSold(ctx context.Context, filter Filter) ([]ProductSales, error)

	// SalesBySeller returns rows ordered by payable total descending.
	SalesBySeller(ctx context.Context, filter Filter) ([]SellerSales, error)
}

// Service validates filters and delegates to the read repository.
type Service struct {
	repo Repository
}

// NewService creates the reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) validate(filter Filter) error {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return apperror.NewValidation("date_to must not precede date_from")
	}
	if filter.InvoiceNumber != nil && *filter.InvoiceNumber <= 0 {
		return apperror.NewValidation("invoice number must be positive")
	}
	return nil
}

// SalesSummary returns overall totals for the filter.
func (s *Service) SalesSummary(ctx context.Context, filter Filter) (*SalesSummary, error) {
	if err := s.validate(filter); err != nil {
		return nil, err
	}
	return s.repo.SalesSummary(ctx, filter)
}

// ProductsSold returns per-product movement for the filter.
func (s *Service) ProductsSold(ctx context.Context, filter Filter) ([]ProductSales, error) {
	if err := s.validate(filter); err != nil {
		return nil, err
	}
	return s.repo.ProductsSold(ctx, filter)
}

// SalesBySeller returns per-seller totals for the filter.
func (s *Service) SalesBySeller(ctx context.Context, filter Filter) ([]SellerSales, error) {
	if err := s.validate(filter); err != nil {
		return nil, err
	}
	return s.repo.SalesBySeller(ctx, filter)
}
