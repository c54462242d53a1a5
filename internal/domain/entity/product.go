package entity

import "time"

// Product is a catalog entry (artikal) owned by a single company user.
// Invoice items reference it but carry their own snapshot of its fields,
// so later edits never rewrite history.
type Product struct {
	ID           int64
	OwnerUserID  int64
	Name         string
	Code         string // unique per owner
	MaterialType *string
	CreatedAt    time.Time
}
