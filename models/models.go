package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles recognized by the role gate on admin routes.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Populated by the list query only, not a column.
	ProductCount int64 `gorm:"->;-:migration" json:"product_count"`
}

type Product struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Slug           string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string    `json:"description"`
	Price          float64   `gorm:"not null" json:"price"`
	CompareAtPrice *float64  `json:"compare_at_price,omitempty"`
	Images         []string  `gorm:"type:jsonb;serializer:json" json:"images"`
	CategoryID     uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category       *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Stock          int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	IsFeatured     bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Address struct {
	FirstName  string `json:"first_name" binding:"required,max=100"`
	LastName   string `json:"last_name" binding:"required,max=100"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"omitempty,max=30"`
	Address    string `json:"address" binding:"required,min=5,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=50"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,min=2,max=2"`
}

// Order is a financial record: rows are never deleted, and total is always
// the server-side recomputation, never a client-submitted value.
type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Total           float64     `gorm:"not null" json:"total"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ShippingAddress Address     `gorm:"type:jsonb;serializer:json" json:"shipping_address"`
	BillingAddress  *Address    `gorm:"type:jsonb;serializer:json" json:"billing_address,omitempty"`
	PaymentIntentID string      `gorm:"index" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem freezes the unit price at order-creation time. Later product
// price changes must not alter historical orders.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
}
