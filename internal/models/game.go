package models

import "time"

// Platform identifies the mobile store a game ships on.
type Platform string

const (
	PlatformIOS     Platform = "iOS"
	PlatformAndroid Platform = "Android"
)

// Valid reports whether p is a recognized platform tag.
func (p Platform) Valid() bool {
	switch p {
	case PlatformIOS, PlatformAndroid:
		return true
	}
	return false
}

// Game represents a mobile game in the catalog. Deletes are hard deletes,
// so the model carries no soft-delete column.
type Game struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PublisherID *string   `gorm:"size:255" json:"publisherId"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Platform    Platform  `gorm:"size:50;not null;index" json:"platform"`
	StoreID     *string   `gorm:"size:255;index" json:"storeId"`
	BundleID    *string   `gorm:"size:255" json:"bundleId"`
	AppVersion  *string   `gorm:"size:100" json:"appVersion"`
	IsPublished bool      `json:"isPublished"`
}
