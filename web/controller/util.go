package controller

import (
	"net"
	"net/http"
	"strings"

	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web/entity"
	"github.com/libdesk/libdesk/web/session"

	"github.com/gin-gonic/gin"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		m.Msg = msg
	} else {
		m.Msg = I18nWeb(c, "somethingWentWrong")
		logger.Warning("api request failed:", c.Request.URL.Path, err)
	}
	c.JSON(http.StatusOK, m)
}

// html renders a page. Pending session flashes are shown before the ones
// passed in data["flashes"].
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	flashes := session.Flashes(c)
	if extra, ok := data["flashes"].([]string); ok {
		flashes = append(flashes, extra...)
	}
	data["flashes"] = flashes
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	c.HTML(http.StatusOK, name, getContext(data))
}

// getContext adds version and other context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver": config.GetVersion(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// flash queues msg for the next rendered page.
func flash(c *gin.Context, msg string) {
	if err := session.AddFlash(c, msg); err != nil {
		logger.Warning("unable to save flash:", err)
	}
}
