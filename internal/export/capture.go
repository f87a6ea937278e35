package export

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContentSelector selects the printable résumé region.
const ContentSelector = "#resume-container"

// Region cuts the element matching selector out of a rendered page and
// returns a standalone document containing the page head and that element.
func Region(page, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", &CaptureError{Message: "failed to parse rendered page", Cause: err}
	}

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", &CaptureError{Message: fmt.Sprintf("no element matches %q", selector)}
	}

	region, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", &CaptureError{Message: "failed to serialize content region", Cause: err}
	}

	// Controls are not part of the printed document.
	doc.Find("body").SetHtml(region)
	doc.Find("[data-export=hide]").Remove()

	out, err := doc.Html()
	if err != nil {
		return "", &CaptureError{Message: "failed to serialize document", Cause: err}
	}
	return out, nil
}
