package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Page sizes
const (
	PageLetter = "letter"
	PageA4     = "a4"
)

// Orientations
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// Options configure the document renderer.
type Options struct {
	// Margins in inches, applied to all four sides.
	Margins      float64 `json:"margins" validate:"gte=0,lte=3"`
	Filename     string  `json:"filename"`
	ImageQuality float64 `json:"image_quality" validate:"gt=0,lte=1"`
	PageSize     string  `json:"page_size" validate:"oneof=letter a4"`
	Orientation  string  `json:"orientation" validate:"oneof=portrait landscape"`
	Scale        float64 `json:"scale" validate:"gt=0,lte=4"`
}

// DefaultOptions returns letter/portrait with half-inch margins, 0.98 JPEG
// quality and a 2x capture scale.
func DefaultOptions() Options {
	return Options{
		Margins:      0.5,
		ImageQuality: 0.98,
		PageSize:     PageLetter,
		Orientation:  Portrait,
		Scale:        2,
	}
}

// PaperSize returns the portrait page width and height in inches.
func (o Options) PaperSize() (width, height float64) {
	if o.PageSize == PageA4 {
		return 8.27, 11.69
	}
	return 8.5, 11
}

// Filename builds "<Subject_Name>_Resume_<LANG>.pdf".
func Filename(subjectName, language string) string {
	name := strings.Join(strings.Fields(subjectName), "_")
	if name == "" {
		return fmt.Sprintf("Resume_%s.pdf", strings.ToUpper(language))
	}
	return fmt.Sprintf("%s_Resume_%s.pdf", name, strings.ToUpper(language))
}

// Validate checks the options against their field constraints.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid export option %s: failed '%s' validation", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid export options: %w", err)
	}
	return nil
}
