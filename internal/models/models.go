package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"
)

// NewReferenceID returns a 24 character hex identifier, the format every
// category and product id exchanged with the storefront follows.
func NewReferenceID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

type Category struct {
	ID        string         `gorm:"primaryKey;size:24" json:"_id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
	IsActive bool   `gorm:"default:true;index" json:"isActive"`
	Order    int    `gorm:"default:0" json:"order"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewReferenceID()
	}
	return nil
}

type Product struct {
	ID        string         `gorm:"primaryKey;size:24" json:"_id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `json:"imageUrl"`
	PriceCents  int64  `gorm:"not null;default:0" json:"priceCents"`
	Currency    string `gorm:"size:3;default:'USD'" json:"currency"`
	IsActive    bool   `gorm:"default:true;index" json:"isActive"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewReferenceID()
	}
	return nil
}

type Page struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Type        string          `gorm:"size:32;not null;default:'landing_page';index" json:"type"`
	Title       string          `gorm:"not null" json:"title"`
	Slug        string          `gorm:"uniqueIndex;not null" json:"slug"`
	Content     string          `gorm:"type:text" json:"content"`
	Sections    LandingSections `gorm:"type:jsonb" json:"sections"`
	Published   bool            `gorm:"default:false" json:"published"`
	PublishedAt *time.Time      `gorm:"index" json:"publishedAt,omitempty"`

	Order int `gorm:"default:0" json:"order"`
}

// LandingPagePayload is the body accepted by the page persistence API.
type LandingPagePayload struct {
	Type     string           `json:"type"`
	Title    string           `json:"title" binding:"required"`
	Content  string           `json:"content"`
	Sections []LandingSection `json:"sections"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" binding:"required,no_html"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
	IsActive *bool  `json:"isActive"`
}

type CreateProductRequest struct {
	Title       string `json:"title" binding:"required,no_html"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	PriceCents  int64  `json:"priceCents" binding:"min=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	IsActive    *bool  `json:"isActive"`
}
