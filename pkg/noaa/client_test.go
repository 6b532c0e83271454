package noaa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const studyFixture = `{
  "study": [
    {
      "NOAAStudyId": "13156",
      "studyName": "Lake Core d18O",
      "dataType": "PALEOLIMNOLOGY",
      "investigatorDetails": [{"firstName": "E.", "lastName": "Wahl"}],
      "publication": [
        {
          "author": {"name": "Wahl, E."},
          "title": "Holocene isotope variability",
          "journal": "QSR",
          "pubYear": 2014,
          "identifier": {"type": "doi", "id": "10.1000/qsr.2014"}
        }
      ],
      "funding": [{"fundingAgency": "NSF", "fundingGrant": "ATM-123"}],
      "site": [
        {
          "NOAASiteId": "55",
          "siteName": "Crater Lake",
          "locationName": "Continent>North America",
          "geo": {
            "geometry": {"type": "POINT", "coordinates": ["42.9", "-122.1"]},
            "properties": {"minElevationMeters": "1880", "maxElevationMeters": "1883"}
          },
          "paleoData": [
            {
              "NOAADataTableId": "45859",
              "dataTableName": "core1",
              "timeUnit": "cal yr BP",
              "dataFile": [
                {
                  "fileUrl": "https://example.org/data/core1.txt",
                  "urlDescription": "isotope table",
                  "variables": [
                    {"cvShortName": "age", "cvUnit": "cal yr BP"},
                    {"cvShortName": "d18O", "cvUnit": "permil"}
                  ]
                }
              ]
            }
          ]
        }
      ]
    }
  ]
}`

func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataPublisher") != "NOAA" {
			t.Errorf("missing dataPublisher in query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(studyFixture)) // nolint: errcheck
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientSearch(t *testing.T) {
	srv := fixtureServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	studies, _, err := c.Search(context.Background(), SearchParams{NOAAStudyID: "13156"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(studies) != 1 {
		t.Fatalf("studies = %d, want 1", len(studies))
	}
	s := studies[0]
	if s.StudyName != "Lake Core d18O" {
		t.Errorf("studyName = %q", s.StudyName)
	}
	if len(s.Sites) != 1 || len(s.Sites[0].PaleoData) != 1 {
		t.Fatalf("unexpected site shape: %+v", s.Sites)
	}
	if got := s.Sites[0].Latitude(); got != "42.9" {
		t.Errorf("latitude = %q", got)
	}
	if got := s.Publications[0].DOI(); got != "10.1000/qsr.2014" {
		t.Errorf("doi = %q", got)
	}
}

func TestClientSearch_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	studies, _, err := c.Search(context.Background(), SearchParams{SearchText: "nothing"})
	if err != nil {
		t.Fatalf("204 must not be an error: %v", err)
	}
	if len(studies) != 0 {
		t.Errorf("studies = %d, want 0", len(studies))
	}
}

func TestClientSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, _, err := c.Search(context.Background(), SearchParams{SearchText: "x"}); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestClientRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// drop the first connection to force a transport error
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			conn.Close() // nolint: errcheck
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRetries(2))
	c.backoff = 10 * time.Millisecond

	if _, _, err := c.Search(context.Background(), SearchParams{SearchText: "x"}); err != nil {
		t.Fatalf("retried search failed: %v", err)
	}
	if calls.Load() < 2 {
		t.Errorf("expected a retry, got %d calls", calls.Load())
	}
}

func TestFetchFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Depth  Age\n1.0  100\n")) // nolint: errcheck
	}))
	defer srv.Close()

	c := NewClient()
	data, name, err := c.FetchFile(context.Background(), srv.URL+"/files/core1.txt")
	if err != nil {
		t.Fatalf("FetchFile: %v", err)
	}
	if string(data) != "Depth  Age\n1.0  100\n" {
		t.Errorf("data = %q", data)
	}
	if name != "/files/core1.txt" {
		t.Errorf("name hint = %q", name)
	}
}
