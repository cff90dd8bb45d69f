package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Roles
// ============================================================

// Role names. The set is static and seeded at startup; business rules
// reference the three authenticated roles explicitly (no inferred
// hierarchy), GUEST exists only as a named bucket for anonymous access.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
	RoleGuest   = "GUEST"
)

// Role represents the roles table
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:20;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Role) TableName() string {
	return "roles"
}

// ============================================================
// Users
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Roles     []Role         `gorm:"many2many:user_roles" json:"-"`
	Orders    []Order        `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames returns the user's role set as plain strings.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     u.RoleNames(),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Books
// ============================================================

// Book types
const (
	BookTypePaper      = "PAPER"
	BookTypeElectronic = "ELECTRONIC"
)

// Book represents the books table. IsAvailable is owned by the
// ordering workflow: true unless the book is attached to an open order.
type Book struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null;index" json:"name"`
	Author      string         `gorm:"size:100;not null;index" json:"author"`
	Description string         `gorm:"type:text" json:"description"`
	Genre       string         `gorm:"size:50;index" json:"genre"`
	Type        string         `gorm:"size:20;not null;default:'PAPER'" json:"type"`
	Year        int            `gorm:"not null" json:"year"`
	IsAvailable bool           `gorm:"default:true" json:"is_available"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Book) TableName() string {
	return "books"
}

// ============================================================
// Orders
// ============================================================

// Order statuses
const (
	OrderStatusPending   = "PENDING"
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order joins a user to a book. Creating an order flips the book to
// unavailable; completing, cancelling or deleting an open order flips
// it back.
type Order struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderNumber string     `gorm:"uniqueIndex;size:36;not null" json:"order_number"`
	BookID      uint       `gorm:"not null;index" json:"book_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Status      string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	OrderedAt   time.Time  `gorm:"not null" json:"ordered_at"`
	ReturnedAt  *time.Time `json:"returned_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Book *Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// IsOpen reports whether the order still holds the book.
func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusApproved
}

// OrderResponse DTO
type OrderResponse struct {
	ID          uint       `json:"id"`
	OrderNumber string     `json:"order_number"`
	BookID      uint       `json:"book_id"`
	BookName    string     `json:"book_name,omitempty"`
	UserID      uint       `json:"user_id"`
	UserEmail   string     `json:"user_email,omitempty"`
	Status      string     `json:"status"`
	OrderedAt   time.Time  `json:"ordered_at"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
}

func (o *Order) ToResponse() *OrderResponse {
	resp := &OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		BookID:      o.BookID,
		UserID:      o.UserID,
		Status:      o.Status,
		OrderedAt:   o.OrderedAt,
		ReturnedAt:  o.ReturnedAt,
	}

	if o.Book != nil {
		resp.BookName = o.Book.Name
	}
	if o.User != nil {
		resp.UserEmail = o.User.Email
	}

	return resp
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&User{},
		&Book{},
		&Order{},
	)
}
