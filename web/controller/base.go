// Package controller holds the libdesk HTTP handlers: login, the admin
// dashboard, student and book management, circulation and the JSON API.
// Authorization happens in middleware before any handler here runs.
package controller

import (
	"github.com/libdesk/libdesk/web/locale"

	"github.com/gin-gonic/gin"
)

// BaseController carries what every controller shares.
type BaseController struct{}

// I18nWeb renders a message in the language of the current request.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	return locale.I18nCtx(c, name, params...)
}
