package noaa

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Hanaasagi/paleotext/pkg/textparse"
)

// tableRef ties a data table id back to its study, site and paleo data.
type tableRef struct {
	study *Study
	site  *Site
	paleo *PaleoData
}

// Dataset aggregates search results and resolves data tables to parsed
// files. Summaries come back as textparse tables so the whole toolkit
// speaks one tabular type; callers must not mutate their columns or
// attrs.
type Dataset struct {
	client  *Client
	parser  *textparse.Parser
	log     *slog.Logger
	studies []*Study

	byStudyID  map[string]*Study
	byTableID  map[string]tableRef
	urlToTable map[string]string
}

// NewDataset builds an empty dataset around a client. A nil client gets
// the defaults.
func NewDataset(client *Client, opts ...textparse.Option) *Dataset {
	if client == nil {
		client = NewClient()
	}
	return &Dataset{
		client:     client,
		parser:     textparse.New(opts...),
		log:        slog.Default(),
		byStudyID:  map[string]*Study{},
		byTableID:  map[string]tableRef{},
		urlToTable: map[string]string{},
	}
}

// Search runs a study search and replaces the dataset contents with the
// results.
func (d *Dataset) Search(ctx context.Context, params SearchParams) error {
	studies, notes, err := d.client.Search(ctx, params)
	if err != nil {
		return err
	}
	for _, n := range notes {
		d.log.Info("search note", "note", n)
	}

	d.studies = d.studies[:0]
	clear(d.byStudyID)
	clear(d.byTableID)
	clear(d.urlToTable)

	for i := range studies {
		s := &studies[i]
		d.studies = append(d.studies, s)
		d.byStudyID[s.NOAAStudyID.String()] = s
		for j := range s.Sites {
			site := &s.Sites[j]
			for k := range site.PaleoData {
				paleo := &site.PaleoData[k]
				id := paleo.NOAADataTableID.String()
				d.byTableID[id] = tableRef{study: s, site: site, paleo: paleo}
				for _, f := range paleo.DataFiles {
					if f.FileURL != "" {
						d.urlToTable[f.FileURL] = id
					}
				}
			}
		}
	}
	d.log.Info("parsed studies", "count", len(d.studies))
	return nil
}

// Studies returns the loaded studies in response order.
func (d *Dataset) Studies() []*Study { return d.studies }

// Summary folds study metadata into one row per study.
func (d *Dataset) Summary() *textparse.Table {
	t := summaryTable("StudyID", "StudyName", "DataType", "Investigators",
		"EarliestYearBP", "MostRecentYearBP", "Sites", "Publications")
	for _, s := range d.studies {
		appendRow(t,
			s.NOAAStudyID.String(), s.StudyName, s.DataType, s.InvestigatorNames(),
			s.EarliestYearBP.String(), s.MostRecentYearBP.String(),
			strconv.Itoa(len(s.Sites)), strconv.Itoa(len(s.Publications)))
	}
	return t
}

// Sites returns one row per (study, site).
func (d *Dataset) Sites() *textparse.Table {
	t := summaryTable("StudyID", "SiteID", "SiteName", "LocationName",
		"Latitude", "Longitude", "MinElevation", "MaxElevation")
	for _, s := range d.studies {
		for i := range s.Sites {
			site := &s.Sites[i]
			minEl, maxEl := "", ""
			if site.Geo != nil {
				minEl = site.Geo.Properties.MinElevationMeters.String()
				maxEl = site.Geo.Properties.MaxElevationMeters.String()
			}
			appendRow(t,
				s.NOAAStudyID.String(), site.NOAASiteID.String(), site.SiteName,
				site.LocationName, site.Latitude(), site.Longitude(), minEl, maxEl)
		}
	}
	return t
}

// Tables returns one row per (study, site, data table, file).
func (d *Dataset) Tables() *textparse.Table {
	t := summaryTable("StudyID", "StudyName", "SiteID", "SiteName",
		"DataTableID", "DataTableName", "TimeUnit", "FileURL", "FileDescription")
	for _, s := range d.studies {
		for i := range s.Sites {
			site := &s.Sites[i]
			for j := range site.PaleoData {
				paleo := &site.PaleoData[j]
				for _, f := range paleo.DataFiles {
					appendRow(t,
						s.NOAAStudyID.String(), s.StudyName,
						site.NOAASiteID.String(), site.SiteName,
						paleo.NOAADataTableID.String(), paleo.DataTableName,
						paleo.TimeUnit, f.FileURL, f.URLDescription)
				}
			}
		}
	}
	return t
}

// Publications returns one row per publication across loaded studies.
func (d *Dataset) Publications() *textparse.Table {
	t := summaryTable("StudyID", "StudyName", "Author", "Title",
		"Journal", "Year", "Volume", "Issue", "Pages", "DOI")
	for _, s := range d.studies {
		for i := range s.Publications {
			pub := &s.Publications[i]
			appendRow(t,
				s.NOAAStudyID.String(), s.StudyName, pub.Author.Name, pub.Title,
				pub.Journal, pub.PubYear.String(), pub.Volume.String(),
				pub.Issue.String(), pub.Pages.String(), pub.DOI())
		}
	}
	return t
}

// Funding returns one row per funding record across loaded studies.
func (d *Dataset) Funding() *textparse.Table {
	t := summaryTable("StudyID", "StudyName", "FundingAgency", "FundingGrant")
	for _, s := range d.studies {
		for _, f := range s.Funding {
			appendRow(t, s.NOAAStudyID.String(), s.StudyName, f.FundingAgency, f.FundingGrant)
		}
	}
	return t
}

// Variables returns variable metadata for the given data table ids, one
// row per (file, variable).
func (d *Dataset) Variables(dataTableIDs ...string) (*textparse.Table, error) {
	t := summaryTable("DataTableID", "StudyID", "SiteID", "FileURL",
		"VariableName", "What", "Material", "Unit", "Seasonality", "Method")
	for _, id := range dataTableIDs {
		ref, ok := d.byTableID[id]
		if !ok {
			return nil, fmt.Errorf("data table id %q not found; run Search first", id)
		}
		for _, f := range ref.paleo.DataFiles {
			if f.FileURL == "" {
				continue
			}
			for _, v := range f.Variables {
				appendRow(t,
					id, ref.study.NOAAStudyID.String(), ref.site.NOAASiteID.String(),
					f.FileURL, v.CVShortName, v.CVWhat, v.CVMaterial, v.CVUnit,
					v.CVSeasonality, v.CVMethod)
			}
		}
	}
	return t, nil
}

// GetData fetches and parses the data files behind the given data table
// ids, stamping study and site attributes onto each parsed table.
func (d *Dataset) GetData(ctx context.Context, dataTableIDs ...string) ([]*textparse.Table, error) {
	var out []*textparse.Table
	for _, id := range dataTableIDs {
		ref, ok := d.byTableID[id]
		if !ok {
			return nil, fmt.Errorf("data table id %q not found; run Search first", id)
		}
		for _, f := range ref.paleo.DataFiles {
			if f.FileURL == "" {
				continue
			}
			tables, err := d.fetchAndParse(ctx, f.FileURL)
			if err != nil {
				return nil, err
			}
			for _, t := range tables {
				t.Attrs["NOAAStudyId"] = ref.study.NOAAStudyID.String()
				t.Attrs["StudyName"] = ref.study.StudyName
				t.Attrs["SiteID"] = ref.site.NOAASiteID.String()
			}
			out = append(out, tables...)
		}
	}
	return out, nil
}

// GetDataByURL fetches and parses arbitrary file URLs. URLs linked to a
// loaded study also receive its attributes.
func (d *Dataset) GetDataByURL(ctx context.Context, fileURLs ...string) ([]*textparse.Table, error) {
	var out []*textparse.Table
	for _, u := range fileURLs {
		tables, err := d.fetchAndParse(ctx, u)
		if err != nil {
			return nil, err
		}
		if id, ok := d.urlToTable[u]; ok {
			if ref, ok := d.byTableID[id]; ok {
				for _, t := range tables {
					t.Attrs["NOAAStudyId"] = ref.study.NOAAStudyID.String()
					t.Attrs["StudyName"] = ref.study.StudyName
					t.Attrs["SiteID"] = ref.site.NOAASiteID.String()
				}
			}
		} else {
			d.log.Warn("file url not linked to a loaded study; no metadata attached", "url", u)
		}
		out = append(out, tables...)
	}
	return out, nil
}

func (d *Dataset) fetchAndParse(ctx context.Context, fileURL string) ([]*textparse.Table, error) {
	data, name, err := d.client.FetchFile(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	tables, err := d.parser.Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileURL, err)
	}
	return tables, nil
}

func summaryTable(names ...string) *textparse.Table {
	cols := make([]textparse.ColumnSpec, len(names))
	for i, n := range names {
		cols[i] = textparse.ColumnSpec{Name: n}
	}
	return &textparse.Table{Columns: cols, Attrs: map[string]string{}}
}

func appendRow(t *textparse.Table, values ...string) {
	row := make(textparse.Row, len(values))
	for i, v := range values {
		if v != "" {
			row[i] = textparse.Cell{Text: v, Valid: true}
		}
	}
	t.Rows = append(t.Rows, row)
}
