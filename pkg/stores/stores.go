package stores

import (
	// Standard libraries
	"sort"
	"strings"
)

// Constants
const (
	// DefaultCode is the storefront used when nothing else can be decided
	DefaultCode = "UK"

	// LabelPrefix is prepended to the storefront name in visible labels
	LabelPrefix = "Amazon"
)

// Store - a single regional storefront
type Store struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// table is the only source of valid region codes
var table = map[string]Store{
	"AU": {Code: "AU", Name: "Australia", Domain: "amazon.com.au"},
	"BR": {Code: "BR", Name: "Brazil", Domain: "amazon.com.br"},
	"CA": {Code: "CA", Name: "Canada", Domain: "amazon.ca"},
	"DE": {Code: "DE", Name: "Germany", Domain: "amazon.de"},
	"ES": {Code: "ES", Name: "Spain", Domain: "amazon.es"},
	"FR": {Code: "FR", Name: "France", Domain: "amazon.fr"},
	"IN": {Code: "IN", Name: "India", Domain: "amazon.in"},
	"IT": {Code: "IT", Name: "Italy", Domain: "amazon.it"},
	"JP": {Code: "JP", Name: "Japan", Domain: "amazon.co.jp"},
	"MX": {Code: "MX", Name: "Mexico", Domain: "amazon.com.mx"},
	"NL": {Code: "NL", Name: "Netherlands", Domain: "amazon.nl"},
	"UK": {Code: "UK", Name: "UK", Domain: "amazon.co.uk"},
	"US": {Code: "US", Name: "US", Domain: "amazon.com"},
}

// Lookup returns the storefront registered under code
func Lookup(code string) (Store, bool) {
	s, ok := table[code]
	return s, ok
}

// Valid reports whether code names a known storefront
func Valid(code string) bool {
	_, ok := table[code]
	return ok
}

// Default returns the fallback storefront
func Default() Store {
	return table[DefaultCode]
}

// All returns every storefront ordered by code
func All() []Store {
	out := make([]Store, 0, len(table))
	for _, s := range table {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Codes returns every region code in alphabetical order
func Codes() []string {
	all := All()
	codes := make([]string, len(all))
	for i, s := range all {
		codes[i] = s.Code
	}
	return codes
}

// Normalize trims and upper-cases a user supplied region code
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Label - visible storefront name, e.g. "Amazon Germany". Unknown codes read as the default store.
func Label(code string) string {
	s, ok := table[code]
	if !ok {
		s = Default()
	}
	return LabelPrefix + " " + s.Name
}
