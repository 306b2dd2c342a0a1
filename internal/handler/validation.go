package handler

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/fsrsite/internal/service"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	cssColorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|(rgb|rgba|hsl|hsla)\(\s*[0-9.%]+(\s*[,\s/]\s*[0-9.%]+){2,3}\s*\)|[a-zA-Z]{3,20})$`)
	registerOnce    sync.Once
)

// RegisterValidators installs the custom binding tags on gin's validator.
// Field names in messages follow the json tag of the field.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
		_ = v.RegisterValidation("fsrslug", func(fl validator.FieldLevel) bool {
			return service.ValidFSRSlug(fl.Field().String())
		})
		_ = v.RegisterValidation("csscolor", func(fl validator.FieldLevel) bool {
			return validCSSColor(fl.Field().String())
		})
	})
}

func validCSSColor(value string) bool {
	return cssColorPattern.MatchString(strings.TrimSpace(value))
}
