package roster

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
)

var (
	moodTag  = "mood"
	moodText = "mood must be one of happy, neutral or sad"

	attendanceStatusTag  = "attendance_status"
	attendanceStatusText = "status must be one of present, absent or late"
)

// InitValidators registers the roster validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(moodTag, moodValidation)
	core.RegisterCustomTranslation(validate, translator, moodTag, moodText)

	_ = validate.RegisterValidation(attendanceStatusTag, attendanceStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attendanceStatusTag, attendanceStatusText)
}

// Custom Validators

func moodValidation(fl validator.FieldLevel) bool {
	return Mood(fl.Field().String()).Valid()
}

func attendanceStatusValidation(fl validator.FieldLevel) bool {
	return AttendanceStatus(fl.Field().String()).Valid()
}
