// Package locale renders user-facing strings from TOML translation files.
package locale

import (
	"io/fs"
	"strings"

	"github.com/libdesk/libdesk/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const localizerKey = "localizer"

var (
	i18nBundle       *i18n.Bundle
	defaultLocalizer *i18n.Localizer
)

// InitLocalizer parses every file under the "translation" directory of fsys.
// English is the fallback language.
func InitLocalizer(fsys fs.FS) error {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	err := fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
	if err != nil {
		return err
	}

	i18nBundle = bundle
	defaultLocalizer = i18n.NewLocalizer(bundle, "en-US")
	return nil
}

// createTemplateData turns "key==value" params into template data.
func createTemplateData(params []string) map[string]any {
	templateData := make(map[string]any, len(params))
	for _, param := range params {
		parts := strings.SplitN(param, "==", 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

func localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Warningf("failed to localize %q: %v", key, err)
		return key
	}
	return msg
}

// I18n renders key in the default language.
func I18n(key string, params ...string) string {
	return localize(defaultLocalizer, key, params...)
}

// I18nCtx renders key in the language chosen for this request.
func I18nCtx(c *gin.Context, key string, params ...string) string {
	if v, ok := c.Get(localizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return localize(l, key, params...)
		}
	}
	return I18n(key, params...)
}

// LocalizerMiddleware picks the request language from the "lang" cookie or
// the Accept-Language header.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if i18nBundle != nil {
			var lang string
			if cookie, err := c.Request.Cookie("lang"); err == nil {
				lang = cookie.Value
			}
			c.Set(localizerKey, i18n.NewLocalizer(i18nBundle, lang, c.GetHeader("Accept-Language")))
		}
		c.Next()
	}
}
