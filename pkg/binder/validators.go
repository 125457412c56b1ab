package binder

import (
	"github.com/go-playground/validator/v10"
	"github.com/mushaflabs/recite/pkg/quranapi"
)

// verseKeyValidator ensures the value matches the "{chapter}:{verse}" format
// or the empty string. The reason the empty string is allowed is that this
// validator can be used to clear out values. However, this is only useful in
// that case, so if you're using this validator but want the value to be
// required, add a `ne=` to the validate tag so that the empty string is
// disallowed.
func verseKeyValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return quranapi.IsValidVerseKey(value)
}
