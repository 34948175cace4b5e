package service

import (
	"time"

	"github.com/libdesk/libdesk/caching"
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IssueService lends books to students and takes them back. Issue and return
// dates are stored in UTC.
//
// The availability flag is flipped with a conditional UPDATE inside the same
// transaction that writes the Issue row, so of two requests racing for one
// book exactly one sees RowsAffected == 1.
type IssueService struct {
	DB    *gorm.DB
	cache *caching.Cache
	now   func() time.Time
}

func NewIssueService(db *gorm.DB, cache *caching.Cache) *IssueService {
	return &IssueService{DB: db, cache: cache, now: time.Now}
}

// IssueBook lends book bookId to student studentId. It fails with
// ErrBookNotFound, ErrStudentNotFound or ErrBookUnavailable and then leaves
// the store untouched.
func (s *IssueService) IssueBook(bookId int, studentId int) (*model.Issue, error) {
	var issue *model.Issue
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Book{}, bookId).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrBookNotFound
			}
			return err
		}
		if err := tx.Select("id").First(&model.Student{}, studentId).Error; err != nil {
			if database.IsNotFound(err) {
				return ErrStudentNotFound
			}
			return err
		}

		res := tx.Model(&model.Book{}).
			Where("id = ? AND available = ?", bookId, true).
			Update("available", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}

		issue = &model.Issue{
			BookId:    bookId,
			StudentId: studentId,
			IssueDate: s.now().UTC(),
		}
		return tx.Omit(clause.Associations).Create(issue).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(s.cache)
	logger.Infof("book %d issued to student %d (issue %d)", bookId, studentId, issue.Id)
	return issue, nil
}

// ReturnBook closes the open issue of bookId held by studentId and makes the
// book available again. Without such an issue it returns ErrNoOpenIssue.
func (s *IssueService) ReturnBook(bookId int, studentId int) (*model.Issue, error) {
	issue := &model.Issue{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("book_id = ? AND student_id = ? AND return_date IS NULL", bookId, studentId).
			Order("id ASC").
			First(issue).Error
		if database.IsNotFound(err) {
			return ErrNoOpenIssue
		}
		if err != nil {
			return err
		}

		returned := s.now().UTC()
		res := tx.Model(&model.Issue{}).
			Where("id = ? AND return_date IS NULL", issue.Id).
			Update("return_date", returned)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoOpenIssue
		}
		issue.ReturnDate = &returned

		return tx.Model(&model.Book{}).
			Where("id = ?", issue.BookId).
			Update("available", true).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(s.cache)
	logger.Infof("book %d returned by student %d (issue %d)", bookId, studentId, issue.Id)
	return issue, nil
}

// GetIssues lists issues newest first with their book and student loaded.
func (s *IssueService) GetIssues(openOnly bool) ([]model.Issue, error) {
	var issues []model.Issue
	q := s.DB.Preload("Book").Preload("Student").Order("id DESC")
	if openOnly {
		q = q.Where("return_date IS NULL")
	}
	if err := q.Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// GetBookIssues returns every issue of one book, oldest first.
func (s *IssueService) GetBookIssues(bookId int) ([]model.Issue, error) {
	var issues []model.Issue
	if err := s.DB.Where("book_id = ?", bookId).Order("id ASC").Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// Activity counts the loans started and closed at or after since.
type Activity struct {
	Issued   int64 `json:"issued"`
	Returned int64 `json:"returned"`
}

func (s *IssueService) GetActivitySince(since time.Time) (Activity, error) {
	var a Activity
	since = since.UTC()
	if err := s.DB.Model(&model.Issue{}).Where("issue_date >= ?", since).Count(&a.Issued).Error; err != nil {
		return Activity{}, err
	}
	if err := s.DB.Model(&model.Issue{}).Where("return_date >= ?", since).Count(&a.Returned).Error; err != nil {
		return Activity{}, err
	}
	return a, nil
}
