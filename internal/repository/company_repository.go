package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CompanyRepository gives access to tenants.
type CompanyRepository interface {
	List(ctx context.Context) ([]domain.Company, error)
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	Update(ctx context.Context, id string, fn func(domain.Company) (domain.Company, error)) (*domain.Company, error)
}

// CategoryRepository exposes the read-only category taxonomy.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type companyRepository struct {
	store *EntityStore
}

// NewCompanyRepository returns a store-backed implementation.
func NewCompanyRepository(store *EntityStore) CompanyRepository {
	return &companyRepository{store: store}
}

func (r *companyRepository) List(_ context.Context) ([]domain.Company, error) {
	return r.store.Companies(), nil
}

func (r *companyRepository) GetByID(_ context.Context, id string) (*domain.Company, error) {
	for _, company := range r.store.Companies() {
		if company.ID == id {
			return &company, nil
		}
	}
	return nil, ErrNotFound
}

func (r *companyRepository) Update(ctx context.Context, id string, fn func(domain.Company) (domain.Company, error)) (*domain.Company, error) {
	var updated domain.Company
	err := r.store.MutateCompanies(ctx, func(companies []domain.Company) ([]domain.Company, error) {
		for i, company := range companies {
			if company.ID != id {
				continue
			}
			next, err := fn(company)
			if err != nil {
				return nil, err
			}
			companies[i] = next
			updated = next
			return companies, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

type categoryRepository struct {
	store *EntityStore
}

// NewCategoryRepository returns a store-backed implementation.
func NewCategoryRepository(store *EntityStore) CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	return r.store.Categories(), nil
}
