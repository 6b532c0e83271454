package noaa

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// SearchParams are the supported study search filters with Go-side
// naming; BuildQuery maps them onto the service's camelCase parameters.
// Multi-value fields are joined with '|'; the matching AndOr combiner is
// sent only when two or more values are present.
type SearchParams struct {
	XMLID      string
	NOAAStudyID string

	SearchText string
	DataTypeID string

	Investigators      []string
	InvestigatorsAndOr string
	Locations          []string
	LocationsAndOr     string
	Keywords           []string
	KeywordsAndOr      string
	Species            []string
	SpeciesAndOr       string
	CvWhats            []string
	CvWhatsAndOr       string
	CvMaterials        []string
	CvMaterialsAndOr   string
	CvSeasonalities    []string
	CvSeasonalitiesAndOr string

	MinLat, MaxLat *int
	MinLon, MaxLon *int
	MinElevation   *int
	MaxElevation   *int

	EarliestYear *int
	LatestYear   *int
	TimeFormat   string // "CE" or "BP"
	TimeMethod   string // overAny, entireOver, overEntire

	Reconstruction *bool
	Recent         bool
	Limit          int
}

var (
	digitsRe  = regexp.MustCompile(`^[0-9]+$`)
	speciesRe = regexp.MustCompile(`^[A-Z]{4}$`)

	timeFormats = map[string]bool{"CE": true, "BP": true}
	timeMethods = map[string]bool{"overAny": true, "entireOver": true, "overEntire": true}
)

type multiSpec struct {
	apiName   string
	andOrName string
	values    []string
	andOr     string
	normalize func(string) (string, error)
}

// BuildQuery validates the parameters and produces the request values
// plus human-readable notes about applied defaults. Identifier searches
// short-circuit: when XMLID or NOAAStudyID is set every other filter is
// ignored.
func (p SearchParams) BuildQuery() (url.Values, []string, error) {
	var notes []string
	q := url.Values{}

	if p.XMLID != "" || p.NOAAStudyID != "" {
		if p.XMLID != "" {
			if !digitsRe.MatchString(p.XMLID) {
				return nil, nil, fmt.Errorf("xml_id must be digits, got %q", p.XMLID)
			}
			q.Set("xmlId", p.XMLID)
		}
		if p.NOAAStudyID != "" {
			if !digitsRe.MatchString(p.NOAAStudyID) {
				return nil, nil, fmt.Errorf("noaa_id must be digits, got %q", p.NOAAStudyID)
			}
			q.Set("NOAAStudyId", p.NOAAStudyID)
		}
		q.Set("dataPublisher", DataPublisher)
		notes = append(notes, "identifier-only fetch; other filters ignored")
		return q, notes, nil
	}

	if p.isEmpty() {
		return nil, nil, fmt.Errorf("at least one search parameter must be specified")
	}

	q.Set("dataPublisher", DataPublisher)
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultLimit
		notes = append(notes, fmt.Sprintf("limit defaulted to %d", DefaultLimit))
	}
	q.Set("limit", strconv.Itoa(limit))

	if p.SearchText != "" {
		q.Set("searchText", strings.TrimSpace(p.SearchText))
	}
	if p.DataTypeID != "" {
		q.Set("dataTypeId", p.DataTypeID)
	}

	specs := []multiSpec{
		{"investigators", "investigatorsAndOr", p.Investigators, p.InvestigatorsAndOr, normalizeInvestigator},
		{"locations", "locationsAndOr", p.Locations, p.LocationsAndOr, nil},
		{"keywords", "keywordsAndOr", p.Keywords, p.KeywordsAndOr, nil},
		{"species", "speciesAndOr", p.Species, p.SpeciesAndOr, normalizeSpecies},
		{"cvWhats", "cvWhatsAndOr", p.CvWhats, p.CvWhatsAndOr, nil},
		{"cvMaterials", "cvMaterialsAndOr", p.CvMaterials, p.CvMaterialsAndOr, nil},
		{"cvSeasonalities", "cvSeasonalitiesAndOr", p.CvSeasonalities, p.CvSeasonalitiesAndOr, nil},
	}
	for _, spec := range specs {
		if len(spec.values) == 0 {
			continue
		}
		items := make([]string, 0, len(spec.values))
		for _, v := range spec.values {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if spec.normalize != nil {
				nv, err := spec.normalize(v)
				if err != nil {
					return nil, nil, fmt.Errorf("%s: %w", spec.apiName, err)
				}
				v = nv
			}
			items = append(items, v)
		}
		if len(items) == 0 {
			continue
		}
		q.Set(spec.apiName, strings.Join(items, "|"))
		if len(items) >= 2 {
			andOr, err := validateAndOr(spec.andOr)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", spec.andOrName, err)
			}
			q.Set(spec.andOrName, andOr)
		} else if spec.andOr != "" {
			notes = append(notes, fmt.Sprintf("%s omitted (single value for %s)", spec.andOrName, spec.apiName))
		}
	}

	if err := setBounded(q, "minLat", p.MinLat, -90, 90); err != nil {
		return nil, nil, err
	}
	if err := setBounded(q, "maxLat", p.MaxLat, -90, 90); err != nil {
		return nil, nil, err
	}
	if err := setBounded(q, "minLon", p.MinLon, -180, 180); err != nil {
		return nil, nil, err
	}
	if err := setBounded(q, "maxLon", p.MaxLon, -180, 180); err != nil {
		return nil, nil, err
	}
	if p.MinElevation != nil {
		q.Set("minElev", strconv.Itoa(*p.MinElevation))
	}
	if p.MaxElevation != nil {
		q.Set("maxElev", strconv.Itoa(*p.MaxElevation))
	}

	if p.EarliestYear != nil {
		q.Set("earliestYear", strconv.Itoa(*p.EarliestYear))
	}
	if p.LatestYear != nil {
		q.Set("latestYear", strconv.Itoa(*p.LatestYear))
	}
	if p.EarliestYear != nil || p.LatestYear != nil {
		tf, tm := p.TimeFormat, p.TimeMethod
		if tf == "" && tm == "" {
			tf = "CE"
			notes = append(notes, "time_format not provided; defaulted to CE")
		}
		if tf != "" {
			if !timeFormats[tf] {
				return nil, nil, fmt.Errorf("time_format must be CE or BP, got %q", tf)
			}
			q.Set("timeFormat", tf)
		}
		if tm != "" {
			if !timeMethods[tm] {
				return nil, nil, fmt.Errorf("time_method must be one of overAny, entireOver, overEntire; got %q", tm)
			}
			q.Set("timeMethod", tm)
		}
	}

	if p.Reconstruction != nil {
		if *p.Reconstruction {
			q.Set("reconstructionsOnly", "Y")
		} else {
			q.Set("reconstructionsOnly", "N")
		}
	}
	if p.Recent {
		q.Set("recent", "true")
	}

	return q, notes, nil
}

func (p SearchParams) isEmpty() bool {
	return p.SearchText == "" && p.DataTypeID == "" &&
		len(p.Investigators) == 0 && len(p.Locations) == 0 &&
		len(p.Keywords) == 0 && len(p.Species) == 0 &&
		len(p.CvWhats) == 0 && len(p.CvMaterials) == 0 &&
		len(p.CvSeasonalities) == 0 &&
		p.MinLat == nil && p.MaxLat == nil &&
		p.MinLon == nil && p.MaxLon == nil &&
		p.MinElevation == nil && p.MaxElevation == nil &&
		p.EarliestYear == nil && p.LatestYear == nil &&
		p.TimeFormat == "" && p.TimeMethod == "" &&
		p.Reconstruction == nil && !p.Recent
}

func validateAndOr(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "or":
		return "or", nil
	case "and":
		return "and", nil
	}
	return "", fmt.Errorf("combiner must be \"and\" or \"or\", got %q", s)
}

// normalizeInvestigator accepts "LastName, Initials" or a bare name.
func normalizeInvestigator(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty investigator")
	}
	return s, nil
}

// normalizeSpecies enforces four-letter uppercase tree species codes.
func normalizeSpecies(s string) (string, error) {
	up := strings.ToUpper(s)
	if !speciesRe.MatchString(up) {
		return "", fmt.Errorf("species code must be four letters, got %q", s)
	}
	return up, nil
}

func setBounded(q url.Values, key string, v *int, lo, hi int) error {
	if v == nil {
		return nil
	}
	if *v < lo || *v > hi {
		return fmt.Errorf("%s must be in [%d, %d], got %d", key, lo, hi, *v)
	}
	q.Set(key, strconv.Itoa(*v))
	return nil
}
