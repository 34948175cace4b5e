package service

import (
	"github.com/libdesk/libdesk/caching"
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"

	"gorm.io/gorm"
)

// StudentService creates and lists students. Students are never updated or deleted.
type StudentService struct {
	DB    *gorm.DB
	cache *caching.Cache
}

func NewStudentService(db *gorm.DB, cache *caching.Cache) *StudentService {
	return &StudentService{DB: db, cache: cache}
}

func (s *StudentService) AddStudent(name string, email string) (*model.Student, error) {
	student := &model.Student{Name: name, Email: email}
	if err := s.DB.Create(student).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrDuplicateEmail.wrap(err)
		}
		return nil, err
	}
	invalidateStats(s.cache)
	logger.Infof("student %d added: %s <%s>", student.Id, name, email)
	return student, nil
}

func (s *StudentService) GetStudents() ([]model.Student, error) {
	var students []model.Student
	if err := s.DB.Order("id ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (s *StudentService) GetStudent(id int) (*model.Student, error) {
	student := &model.Student{}
	err := s.DB.First(student, id).Error
	if database.IsNotFound(err) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// BookService creates and lists books. Availability is changed only by IssueService.
type BookService struct {
	DB    *gorm.DB
	cache *caching.Cache
}

func NewBookService(db *gorm.DB, cache *caching.Cache) *BookService {
	return &BookService{DB: db, cache: cache}
}

func (s *BookService) AddBook(title string, author string, isbn string) (*model.Book, error) {
	book := &model.Book{Title: title, Author: author, Isbn: isbn, Available: true}
	if err := s.DB.Create(book).Error; err != nil {
		if database.IsDuplicate(err) {
			return nil, ErrDuplicateIsbn.wrap(err)
		}
		return nil, err
	}
	invalidateStats(s.cache)
	logger.Infof("book %d added: %q isbn %s", book.Id, title, isbn)
	return book, nil
}

func (s *BookService) GetBooks() ([]model.Book, error) {
	var books []model.Book
	if err := s.DB.Order("id ASC").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (s *BookService) GetBook(id int) (*model.Book, error) {
	book := &model.Book{}
	err := s.DB.First(book, id).Error
	if database.IsNotFound(err) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}
