package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// 纯 JSON 接口不加载任何资源
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders 安全 HTTP 头中间件
// HTML 打印版报表在处理器中覆盖 Content-Security-Policy
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		// 会员姓名等个人数据不允许被中间代理缓存
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
