package services

import (
	"context"
	"errors"

	"librahub/internal/adapters/persistence/models"
	"librahub/internal/adapters/persistence/repositories"
	"librahub/internal/core/domain"

	"gorm.io/gorm"
)

// BookService handles catalog business logic
type BookService struct {
	bookRepo  repositories.BookRepository
	orderRepo repositories.OrderRepository
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repositories.BookRepository,
	orderRepo repositories.OrderRepository,
) *BookService {
	return &BookService{
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
	}
}

// CreateBookInput represents create book input
type CreateBookInput struct {
	Name        string `json:"name"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	Type        string `json:"type"`
	Year        int    `json:"year"`
}

// UpdateBookInput represents update book input. The availability flag
// is deliberately absent: it is owned by the ordering workflow.
type UpdateBookInput struct {
	Name        *string `json:"name"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	Genre       *string `json:"genre"`
	Type        *string `json:"type"`
	Year        *int    `json:"year"`
}

// ListBooksInput represents list books input
type ListBooksInput struct {
	Page   int
	Limit  int
	Sort   string
	Filter repositories.BookFilter
}

// ListBooksOutput represents list books output
type ListBooksOutput struct {
	Books      []*models.Book `json:"books"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// Create creates a new catalog entry
func (s *BookService) Create(ctx context.Context, input *CreateBookInput) (*models.Book, error) {
	book := &models.Book{
		Name:        input.Name,
		Author:      input.Author,
		Description: input.Description,
		Genre:       input.Genre,
		Type:        input.Type,
		Year:        input.Year,
		IsAvailable: true,
	}

	if book.Type == "" {
		book.Type = models.BookTypePaper
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID gets a book by ID
func (s *BookService) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Update updates a catalog entry
func (s *BookService) Update(ctx context.Context, id uint, input *UpdateBookInput) (*models.Book, error) {
	book, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.Genre != nil {
		book.Genre = *input.Genre
	}
	if input.Type != nil {
		book.Type = *input.Type
	}
	if input.Year != nil {
		book.Year = *input.Year
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete hard deletes a book. A book with any existing order, open or
// historical, cannot be deleted; callers get the delete-blocked
// condition and the book is left unchanged.
func (s *BookService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.orderRepo.CountByBook(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrBookHasOrders
	}

	return s.bookRepo.Delete(ctx, id)
}

// List lists books with filters, sorting and pagination
func (s *BookService) List(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	books, total, err := s.bookRepo.List(ctx, input.Filter, input.Sort, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListBooksOutput{
		Books:      books,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}
