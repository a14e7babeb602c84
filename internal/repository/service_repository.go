package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clontarfparadise/proshop-backend/internal/models"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{
		db: db,
	}
}

func (r *ServiceRepository) Create(service *models.Service) error {
	if service.ID == "" {
		service.ID = uuid.NewString()
	}
	return r.db.Create(service).Error
}

func (r *ServiceRepository) GetByID(id string) (*models.Service, error) {
	var service models.Service
	err := r.db.First(&service, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *ServiceRepository) GetAll() ([]models.Service, error) {
	var services []models.Service
	err := r.db.Order("created_at DESC").Find(&services).Error
	return services, err
}

func (r *ServiceRepository) Update(service *models.Service) error {
	return r.db.Save(service).Error
}

func (r *ServiceRepository) Delete(id string) error {
	result := r.db.Delete(&models.Service{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
