package models

import "time"

type ProductCategory string

const (
	CategoryClubs       ProductCategory = "clubs"
	CategoryBalls       ProductCategory = "balls"
	CategoryApparel     ProductCategory = "apparel"
	CategoryAccessories ProductCategory = "accessories"
	CategoryShoes       ProductCategory = "shoes"
	CategoryBags        ProductCategory = "bags"
)

type Product struct {
	ID                 string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name               string           `json:"name" gorm:"not null"`
	Description        *string          `json:"description"`
	Price              float64          `json:"price" gorm:"not null"`
	ImageURL           *string          `json:"image_url"`
	CloudinaryPublicID *string          `json:"cloudinary_public_id"`
	Category           *ProductCategory `json:"category" gorm:"type:varchar(24);index"`
	Brand              *string          `json:"brand"`
	IsFeatured         bool             `json:"is_featured" gorm:"default:false"`
	InStock            bool             `json:"in_stock" gorm:"default:true"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type CreateProductRequest struct {
	Name               string           `json:"name" validate:"required"`
	Description        *string          `json:"description"`
	Price              float64          `json:"price" validate:"required,gt=0"`
	ImageURL           *string          `json:"image_url"`
	CloudinaryPublicID *string          `json:"cloudinary_public_id"`
	Category           *ProductCategory `json:"category" validate:"omitempty,oneof=clubs balls apparel accessories shoes bags"`
	Brand              *string          `json:"brand"`
	IsFeatured         bool             `json:"is_featured"`
	InStock            *bool            `json:"in_stock"`
}

// Pointer fields so a PATCH only touches what the client sent.
type UpdateProductRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Price              *float64         `json:"price" validate:"omitempty,gt=0"`
	ImageURL           *string          `json:"image_url"`
	CloudinaryPublicID *string          `json:"cloudinary_public_id"`
	Category           *ProductCategory `json:"category" validate:"omitempty,oneof=clubs balls apparel accessories shoes bags"`
	Brand              *string          `json:"brand"`
	IsFeatured         *bool            `json:"is_featured"`
	InStock            *bool            `json:"in_stock"`
}
