// Package validation holds the input rules shared by request binding and the services.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/confcfp/cfp-server/internal/constants"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug reports whether s is a lowercase, hyphen separated slug of allowed length.
func IsSlug(s string) bool {
	if len(s) < constants.MinSlugLength || len(s) > constants.MaxSlugLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// IsLocale reports whether s parses as a BCP 47 language tag such as "en-us" or "zh-tw".
func IsLocale(s string) bool {
	if s == "" || strings.ContainsAny(s, " _") {
		return false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return false
	}
	return tag != language.Und
}

// NormalizeSlug trims and lower-cases a slug.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeLanguages lower-cases every language code.
func NormalizeLanguages(langs []string) []string {
	out := make([]string, len(langs))
	for i, l := range langs {
		out[i] = strings.ToLower(strings.TrimSpace(l))
	}
	return out
}

// Register adds the "slug" and "locale" rules and reports fields by their json names.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return IsLocale(fl.Field().String())
	})
}

// RegisterWithGin installs the rules on gin's default binding validator and
// makes JSON binding reject fields the target struct does not declare.
func RegisterWithGin() error {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return Register(v)
	}
	return nil
}
