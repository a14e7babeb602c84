package models

import "time"

// Service is a bookable pro-shop service (lessons, fittings, repairs).
type Service struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name               string    `json:"name" gorm:"not null"`
	Description        *string   `json:"description"`
	Price              float64   `json:"price" gorm:"not null"`
	ImageURL           *string   `json:"image_url"`
	CloudinaryPublicID *string   `json:"cloudinary_public_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type CreateServiceRequest struct {
	Name               string  `json:"name" validate:"required"`
	Description        *string `json:"description"`
	Price              float64 `json:"price" validate:"required,gt=0"`
	ImageURL           *string `json:"image_url"`
	CloudinaryPublicID *string `json:"cloudinary_public_id"`
}

type UpdateServiceRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL           *string  `json:"image_url"`
	CloudinaryPublicID *string  `json:"cloudinary_public_id"`
}
