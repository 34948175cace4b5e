// Package model defines the gorm models persisted by libdesk.
package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is a login account. Password holds a bcrypt hash, never the plaintext.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Password string `json:"-" gorm:"size:150;not null"`
	Role     Role   `json:"role" gorm:"size:50;not null"`
}

type Student struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" form:"name" gorm:"size:150;not null"`
	Email string `json:"email" form:"email" gorm:"size:150;uniqueIndex;not null"`
}

type Book struct {
	Id        int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Title     string `json:"title" form:"title" gorm:"size:150;not null"`
	Author    string `json:"author" form:"author" gorm:"size:150;not null"`
	Isbn      string `json:"isbn" form:"isbn" gorm:"size:13;uniqueIndex;not null"`
	Available bool   `json:"available" gorm:"not null;default:true"`
}

// Issue records one loan of a book to a student. ReturnDate stays nil while
// the book is out; a book has at most one Issue with a nil ReturnDate.
type Issue struct {
	Id         int        `json:"id" gorm:"primaryKey;autoIncrement"`
	BookId     int        `json:"bookId" gorm:"not null;index"`
	Book       *Book      `json:"book,omitempty" gorm:"foreignKey:BookId"`
	StudentId  int        `json:"studentId" gorm:"not null;index"`
	Student    *Student   `json:"student,omitempty" gorm:"foreignKey:StudentId"`
	IssueDate  time.Time  `json:"issueDate" gorm:"not null"`
	ReturnDate *time.Time `json:"returnDate"`
}

// IsOpen reports whether the book covered by the issue is still on loan.
func (i *Issue) IsOpen() bool {
	return i.ReturnDate == nil
}

// Session is a server-side web session. Data holds the gob-encoded values.
type Session struct {
	Id        string    `gorm:"primaryKey;size:64"`
	Data      []byte    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}
