package handler

import (
	"github.com/gin-gonic/gin"

	"ampa-activity/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id（当前操作员）。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := contextString(c, "user_id")
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// RequestLang 派生活动名称使用的语言：?lang= 优先，其次为操作员语言。
// 均为空时返回空字符串，由 Service 回退到默认语言。
func RequestLang(c *gin.Context) string {
	if lang := c.Query("lang"); lang != "" {
		return lang
	}
	return contextString(c, "lang")
}

func contextString(c *gin.Context, key string) string {
	v, exists := c.Get(key)
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
