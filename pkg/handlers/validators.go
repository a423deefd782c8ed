package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// Slugs show up in URLs: lowercase letters, digits and dashes only.
	slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)
	// Paths are slug chains joined with slashes.
	pathRe = regexp.MustCompile(`^[a-z0-9-/]+$`)
)

// RegisterValidations installs the custom binding validators used by the
// admin API payloads. Safe to call more than once.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("slugfield", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("pathfield", func(fl validator.FieldLevel) bool {
		return pathRe.MatchString(fl.Field().String())
	})
}
