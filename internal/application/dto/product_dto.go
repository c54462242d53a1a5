package dto

import "time"

// CreateProductRequest catalog entry input. OwnerUserID is admin-only: a
// company always creates for itself.
type CreateProductRequest struct {
	Name         string  `json:"name"`
	Code         string  `json:"code"`
	MaterialType *string `json:"material_type,omitempty"`
	OwnerUserID  *int64  `json:"owner_user_id,omitempty"`
}

// ProductResponse a catalog entry.
type ProductResponse struct {
	ID           int64     `json:"id"`
	OwnerUserID  int64     `json:"owner_user_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	MaterialType *string   `json:"material_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProductListResponse product listing.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}
