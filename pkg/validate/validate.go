package validate

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	once    sync.Once
	onceErr error
)

// Register 向 Gin 默认校验器注册自定义规则（可重复调用）
//   - date: YYYY-MM-DD 格式的日期字符串
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			onceErr = fmt.Errorf("binding 校验器不是 validator/v10")
			return
		}
		onceErr = v.RegisterValidation("date", Date)
	})
	return onceErr
}

// Date 校验 YYYY-MM-DD 日期，空字符串交给 required/omitempty 处理
func Date(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
