package textparse

import "strings"

// templateScanLimit caps how far into the file the template classifier
// peeks before giving up on finding a sentinel.
const templateScanLimit = 200

// defaultSentinels is the section-header vocabulary that marks a file as
// template-conforming. Extra words can be supplied with WithSentinels.
var defaultSentinels = []string{
	"Site_Name",
	"Variables",
	"Data",
	"Title",
	"Investigators",
	"Contribution_Date",
	"NOTE:",
}

// Template tells the two parser paths apart.
type Template int

const (
	TemplateNonStandard Template = iota
	TemplateStandard
)

func (t Template) String() string {
	if t == TemplateStandard {
		return "standard"
	}
	return "non-standard"
}

// detectTemplate scans the leading lines for NOAA template sentinels: any
// line starting with "##", or a "# " line whose first word is in the
// sentinel vocabulary.
func detectTemplate(lines []Line, sentinels map[string]bool) Template {
	limit := min(len(lines), templateScanLimit)
	for _, l := range lines[:limit] {
		s := l.Stripped
		if strings.HasPrefix(s, "##") {
			return TemplateStandard
		}
		if rest, ok := strings.CutPrefix(s, "# "); ok {
			fields := strings.Fields(rest)
			if len(fields) > 0 && sentinels[fields[0]] {
				return TemplateStandard
			}
		}
	}
	return TemplateNonStandard
}
