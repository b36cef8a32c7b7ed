package repositories

import (
	"errors"

	"bookreview_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookNotFound = errors.New("book not found")

type BookRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Book, error)
	List(db *gorm.DB) ([]models.Book, error)
}

type BookRepositoryImpl struct{}

func NewBookRepository() BookRepository {
	return &BookRepositoryImpl{}
}

func (r *BookRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Book, error) {
	var book models.Book
	err := db.First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *BookRepositoryImpl) List(db *gorm.DB) ([]models.Book, error) {
	var books []models.Book
	err := db.Order("title ASC").Find(&books).Error
	return books, err
}
