// Package entity defines the payloads the web layer writes back to clients.
package entity

import "github.com/libdesk/libdesk/database/model"

// Msg is the envelope of every JSON API response.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// BookDetail is a book together with its full loan history.
type BookDetail struct {
	Book   *model.Book   `json:"book"`
	Issues []model.Issue `json:"issues"`
}
