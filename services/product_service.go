package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mikeychann-hash/Evies-Epoxy/apperrors"
	"github.com/mikeychann-hash/Evies-Epoxy/models"
	"github.com/mikeychann-hash/Evies-Epoxy/repository"
)

type ProductCreateRequest struct {
	Name           string   `json:"name" binding:"required,max=200"`
	Slug           string   `json:"slug" binding:"required,max=200"`
	Description    string   `json:"description" binding:"required,min=10,max=5000"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty" binding:"omitempty,gt=0"`
	Images         []string `json:"images" binding:"omitempty,max=10,dive,url"`
	CategoryID     string   `json:"category_id" binding:"required,uuid"`
	Stock          int      `json:"stock" binding:"min=0"`
	IsActive       *bool    `json:"is_active,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
}

type ProductUpdateRequest struct {
	Name           *string  `json:"name,omitempty" binding:"omitempty,max=200"`
	Slug           *string  `json:"slug,omitempty" binding:"omitempty,max=200"`
	Description    *string  `json:"description,omitempty" binding:"omitempty,min=10,max=5000"`
	Price          *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty" binding:"omitempty,gt=0"`
	Images         []string `json:"images,omitempty" binding:"omitempty,max=10,dive,url"`
	CategoryID     *string  `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Stock          *int     `json:"stock,omitempty" binding:"omitempty,min=0"`
	IsActive       *bool    `json:"is_active,omitempty"`
	IsFeatured     *bool    `json:"is_featured,omitempty"`
}

type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
	}
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, *apperrors.Error) {
	products, err := s.products.List(ctx, filter)
	if err != nil {
		zap.L().Error("Failed to list products", zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return products, nil
}

// Get returns a product by id. Inactive products are hidden unless the
// caller is an administrator.
func (s *ProductService) Get(ctx context.Context, id uuid.UUID, includeInactive bool) (*models.Product, *apperrors.Error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product")
		}
		zap.L().Error("Failed to fetch product", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	if !product.IsActive && !includeInactive {
		return nil, apperrors.NotFound("Product")
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, req *ProductCreateRequest) (*models.Product, *apperrors.Error) {
	if _, err := s.products.FindBySlug(ctx, req.Slug); err == nil {
		return nil, apperrors.Conflict("Product with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	categoryID := uuid.MustParse(req.CategoryID)
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("Category not found")
		}
		return nil, apperrors.Internal(err)
	}

	product := &models.Product{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		Images:         req.Images,
		CategoryID:     categoryID,
		Stock:          req.Stock,
		IsActive:       true,
		IsFeatured:     false,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := s.products.Create(ctx, product); err != nil {
		zap.L().Error("Failed to create product", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	zap.L().Info("Product created", zap.String("id", product.ID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req *ProductUpdateRequest) (*models.Product, *apperrors.Error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product")
		}
		return nil, apperrors.Internal(err)
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := s.products.FindBySlug(ctx, *req.Slug); err == nil {
			return nil, apperrors.Conflict("Product with this slug already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Internal(err)
		}
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.CategoryID != nil {
		categoryID := uuid.MustParse(*req.CategoryID)
		if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Validation("Category not found")
			}
			return nil, apperrors.Internal(err)
		}
		updates["category_id"] = categoryID
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if len(updates) == 0 {
		return existing, nil
	}

	product, err := s.products.Update(ctx, id, updates)
	if err != nil {
		zap.L().Error("Failed to update product", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	zap.L().Info("Product updated", zap.String("id", id.String()))
	return product, nil
}

// Delete removes a product, unless order items reference it: products on
// historical orders are deactivated instead so the financial record stays
// intact. Returns true when the product was deactivated rather than deleted.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (bool, *apperrors.Error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("Product")
		}
		return false, apperrors.Internal(err)
	}

	referenced, err := s.products.HasOrderReferences(ctx, id)
	if err != nil {
		return false, apperrors.Internal(err)
	}

	if referenced {
		if err := s.products.Deactivate(ctx, id); err != nil {
			return false, apperrors.Internal(err)
		}
		zap.L().Warn("Product deactivated instead of deleted (has orders)",
			zap.String("id", id.String()),
			zap.String("name", existing.Name),
		)
		return true, nil
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return false, apperrors.Internal(err)
	}
	zap.L().Info("Product deleted", zap.String("id", id.String()), zap.String("name", existing.Name))
	return false, nil
}
