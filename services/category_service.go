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

type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"required,max=100"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
	Image       string `json:"image,omitempty" binding:"omitempty,url"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Slug        *string `json:"slug,omitempty" binding:"omitempty,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Image       *string `json:"image,omitempty" binding:"omitempty,url"`
}

type CategoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, *apperrors.Error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		zap.L().Error("Failed to list categories", zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, req *CategoryCreateRequest) (*models.Category, *apperrors.Error) {
	if _, err := s.categories.FindBySlug(ctx, req.Slug); err == nil {
		return nil, apperrors.Conflict("Category with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		zap.L().Error("Failed to create category", zap.Error(err))
		return nil, apperrors.Internal(err)
	}

	zap.L().Info("Category created", zap.String("id", category.ID.String()), zap.String("name", category.Name))
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req *CategoryUpdateRequest) (*models.Category, *apperrors.Error) {
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Category")
		}
		return nil, apperrors.Internal(err)
	}

	if req.Slug != nil && *req.Slug != existing.Slug {
		if _, err := s.categories.FindBySlug(ctx, *req.Slug); err == nil {
			return nil, apperrors.Conflict("Category with this slug already exists")
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
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if len(updates) == 0 {
		return existing, nil
	}

	category, err := s.categories.Update(ctx, id, updates)
	if err != nil {
		zap.L().Error("Failed to update category", zap.String("id", id.String()), zap.Error(err))
		return nil, apperrors.Internal(err)
	}
	return category, nil
}

// Delete refuses to remove a category that still has products.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) *apperrors.Error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Category")
		}
		return apperrors.Internal(err)
	}

	hasProducts, err := s.categories.HasProducts(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if hasProducts {
		return apperrors.Conflict("Category still has products")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}
	zap.L().Info("Category deleted", zap.String("id", id.String()))
	return nil
}
