// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/merchkit/storefront-backend/internal/i18n"
)

// I18nMiddleware resolves the response language from Accept-Language.
// Candidates are tried in header order against the loaded locales, so
// "zh-TW,en;q=0.8" resolves to zh_TW when that bundle is present and
// to en otherwise.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", negotiateLang(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func negotiateLang(header string) string {
	supported := make(map[string]bool)
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}

	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if tag == "" {
			continue
		}
		// Locale bundles use underscore form (zh_TW); strip any
		// script subtag so zh-Hant-TW still matches.
		tag = strings.ReplaceAll(tag, "-", "_")
		if supported[tag] {
			return tag
		}
		pieces := strings.Split(tag, "_")
		if len(pieces) == 3 {
			regional := pieces[0] + "_" + pieces[2]
			if supported[regional] {
				return regional
			}
		}
		if supported[pieces[0]] {
			return pieces[0]
		}
	}
	return "en"
}
