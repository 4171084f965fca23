// Package validation 注册请求绑定用的自定义校验规则
package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fitclub/internal/occurrence"
)

// Register 向 gin 的默认校验引擎注册自定义规则
//   - civildate：YYYY-MM-DD 的真实日历日期
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("gin 校验引擎不是 validator/v10")
	}
	if err := v.RegisterValidation("civildate", validateCivilDate); err != nil {
		return fmt.Errorf("注册 civildate 校验规则失败: %w", err)
	}
	return nil
}

func validateCivilDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := occurrence.ParseDate(s)
	return err == nil
}
