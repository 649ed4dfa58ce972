// Package validation registers the custom form tags used by the admin pages
// on gin's validator and turns validation failures into readable messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// custom validation tags
const (
	notBlankTag   = "notblank"
	schoolYearTag = "schoolyear"
	hhmmTag       = "hhmm"
	lrnTag        = "lrn"
)

var (
	schoolYearRe = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
	lrnRe        = regexp.MustCompile(`^\d{12}$`)

	once       sync.Once
	translator ut.Translator
)

// IsSchoolYearName reports whether s is "YYYY-YYYY" with consecutive years.
func IsSchoolYearName(s string) bool {
	m := schoolYearRe.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

// IsHHMM reports whether s is a 24h "HH:MM" clock time.
func IsHHMM(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// IsLRN reports whether s is a 12 digit learner reference number.
func IsLRN(s string) bool {
	return lrnRe.MatchString(s)
}

// Setup registers the custom tags on gin's default validator. Safe to call more than once.
func Setup() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			translator = Register(v)
		}
	})
}

// Register adds the custom tags, English messages and label-based field names to v.
func Register(v *validator.Validate) ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// use the label tag, then the form tag, for field names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(schoolYearTag, func(fl validator.FieldLevel) bool {
		return IsSchoolYearName(fl.Field().String())
	})
	_ = v.RegisterValidation(hhmmTag, func(fl validator.FieldLevel) bool {
		return IsHHMM(fl.Field().String())
	})
	_ = v.RegisterValidation(lrnTag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsLRN(s)
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, schoolYearTag, hhmmTag, lrnTag} {
		_ = v.RegisterTranslation(tag, trans, registerFn, translateCustom)
	}
	return trans
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case schoolYearTag:
		return fe.Field() + " must look like 2024-2025 with consecutive years"
	case hhmmTag:
		return fe.Field() + " must be a time in HH:MM format"
	case lrnTag:
		return fe.Field() + " must be exactly 12 digits"
	default:
		return fe.Field() + " is invalid"
	}
}

// Messages flattens a binding error into one message per failed field.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"The submitted form could not be read."}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if translator != nil {
			out = append(out, fe.Translate(translator))
			continue
		}
		out = append(out, fe.Field()+" is invalid")
	}
	return out
}
