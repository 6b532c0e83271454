// Package noaa is a thin client for the NOAA NCEI paleo study search
// service. It builds validated query strings, issues the search request
// with retry, folds the JSON response into an indexed dataset, and hands
// study data files to the text parser.
package noaa

// BaseURL is the study search endpoint.
const BaseURL = "https://www.ncei.noaa.gov/access/paleo-search/study/search.json"

// DataPublisher is the only publisher this client queries.
const DataPublisher = "NOAA"

// DefaultLimit is the default number of studies per search. NOAA's own
// default is 10, which is too small to be useful.
const DefaultLimit = 100
