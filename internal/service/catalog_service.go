package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/apperr"
	"github.com/clontarfparadise/proshop-backend/internal/models"
	"github.com/clontarfparadise/proshop-backend/pkg/utils"
)

type ProductStore interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	GetAll() ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id string) error
}

type ServiceStore interface {
	Create(svc *models.Service) error
	GetByID(id string) (*models.Service, error)
	GetAll() ([]models.Service, error)
	Update(svc *models.Service) error
	Delete(id string) error
}

// CatalogService owns the shop catalog: physical products and bookable
// pro-shop services.
type CatalogService struct {
	products  ProductStore
	services  ServiceStore
	validator *utils.Validator
}

func NewCatalogService(products ProductStore, services ServiceStore, validator *utils.Validator) *CatalogService {
	return &CatalogService{
		products:  products,
		services:  services,
		validator: validator,
	}
}

func (s *CatalogService) ListProducts() ([]models.Product, error) {
	products, err := s.products.GetAll()
	if err != nil {
		return nil, apperr.InternalErr("failed to list products", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(id string) (*models.Product, error) {
	product, err := s.products.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("product not found")
		}
		return nil, apperr.InternalErr("failed to load product", err)
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(req models.CreateProductRequest) (*models.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}

	product := &models.Product{
		Name:               req.Name,
		Description:        req.Description,
		Price:              roundAmount(req.Price),
		ImageURL:           req.ImageURL,
		CloudinaryPublicID: req.CloudinaryPublicID,
		Category:           req.Category,
		Brand:              req.Brand,
		IsFeatured:         req.IsFeatured,
		InStock:            true,
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}
	if err := s.products.Create(product); err != nil {
		return nil, apperr.InternalErr("failed to create product", err)
	}
	return product, nil
}

func (s *CatalogService) UpdateProduct(id string, req models.UpdateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = roundAmount(*req.Price)
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.CloudinaryPublicID != nil {
		product.CloudinaryPublicID = req.CloudinaryPublicID
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.Brand != nil {
		product.Brand = req.Brand
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.products.Update(product); err != nil {
		return nil, apperr.InternalErr("failed to update product", err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(id string) error {
	if _, err := s.GetProduct(id); err != nil {
		return err
	}
	if err := s.products.Delete(id); err != nil {
		return apperr.InternalErr("failed to delete product", err)
	}
	return nil
}

func (s *CatalogService) ListServices() ([]models.Service, error) {
	services, err := s.services.GetAll()
	if err != nil {
		return nil, apperr.InternalErr("failed to list services", err)
	}
	return services, nil
}

func (s *CatalogService) GetService(id string) (*models.Service, error) {
	svc, err := s.services.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundErr("service not found")
		}
		return nil, apperr.InternalErr("failed to load service", err)
	}
	return svc, nil
}

func (s *CatalogService) CreateService(req models.CreateServiceRequest) (*models.Service, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}

	svc := &models.Service{
		Name:               req.Name,
		Description:        req.Description,
		Price:              roundAmount(req.Price),
		ImageURL:           req.ImageURL,
		CloudinaryPublicID: req.CloudinaryPublicID,
	}
	if err := s.services.Create(svc); err != nil {
		return nil, apperr.InternalErr("failed to create service", err)
	}
	return svc, nil
}

func (s *CatalogService) UpdateService(id string, req models.UpdateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperr.InvalidErr(err.Error())
	}

	svc, err := s.GetService(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.Price != nil {
		svc.Price = roundAmount(*req.Price)
	}
	if req.ImageURL != nil {
		svc.ImageURL = req.ImageURL
	}
	if req.CloudinaryPublicID != nil {
		svc.CloudinaryPublicID = req.CloudinaryPublicID
	}

	if err := s.services.Update(svc); err != nil {
		return nil, apperr.InternalErr("failed to update service", err)
	}
	return svc, nil
}

func (s *CatalogService) DeleteService(id string) error {
	if _, err := s.GetService(id); err != nil {
		return err
	}
	if err := s.services.Delete(id); err != nil {
		return apperr.InternalErr("failed to delete service", err)
	}
	return nil
}
