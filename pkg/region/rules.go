package region

import (
	// Standard libraries
	"regexp"
)

// Rule - maps a pattern to a region code
type Rule struct {
	Pattern *regexp.Regexp
	Code    string
}

// LocaleRules are tried in order against each language preference; first match wins.
var LocaleRules = []Rule{
	{regexp.MustCompile(`(?i)^en-GB`), "UK"},
	{regexp.MustCompile(`(?i)^en-AU`), "AU"},
	{regexp.MustCompile(`(?i)^en-CA`), "CA"},
	{regexp.MustCompile(`(?i)^en-US`), "US"},
	{regexp.MustCompile(`(?i)^en-NZ`), "AU"},
	{regexp.MustCompile(`(?i)^fr`), "FR"},
	{regexp.MustCompile(`(?i)^de`), "DE"},
	{regexp.MustCompile(`(?i)^es`), "ES"},
	{regexp.MustCompile(`(?i)^it`), "IT"},
	{regexp.MustCompile(`(?i)^nl`), "NL"},
	{regexp.MustCompile(`(?i)^ja`), "JP"},
	{regexp.MustCompile(`(?i)^pt(?:-|_)?BR`), "BR"},
	{regexp.MustCompile(`(?i)^hi`), "IN"},
}

// TimeZoneRules are tried in order against the visitor's IANA zone name
var TimeZoneRules = []Rule{
	{regexp.MustCompile(`London|Europe/`), "UK"},
	{regexp.MustCompile(`America/`), "US"},
}

// Match returns the code of the first rule whose pattern matches s
func Match(rules []Rule, s string) (string, bool) {
	for _, r := range rules {
		if r.Pattern.MatchString(s) {
			return r.Code, true
		}
	}
	return "", false
}

// MatchLocales walks the preferences in the visitor's order and returns the first rule hit
func MatchLocales(langs []string) (string, bool) {
	for _, lang := range langs {
		if code, ok := Match(LocaleRules, lang); ok {
			return code, true
		}
	}
	return "", false
}
