package override

import (
	"github.com/go-playground/validator/v10"

	"github.com/campusops/registrar/core"
)

var (
	kindTag  = "overridekind"
	kindText = "kind must be 'override' or 'waiver'"
)

func init() {
	_ = core.Validate.RegisterValidation(kindTag, kindValidation)
	core.RegisterCustomTranslation(kindTag, kindText)
}

func kindValidation(fl validator.FieldLevel) bool {
	return Kind(fl.Field().String()).Valid()
}
