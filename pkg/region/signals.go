package region

import (
	// Standard libraries
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	// External utilities
	"golang.org/x/text/language"
)

// ErrNoSignal marks a visitor signal that could not be read
var ErrNoSignal = errors.New("visitor signal unavailable")

// Signals exposes what is known about the visitor's locale.
// Languages are ordered by the visitor's preference.
type Signals interface {
	Languages() ([]string, error)
	TimeZone() (string, error)
}

// StaticSignals - fixed values, mostly for tests and explicit API callers
type StaticSignals struct {
	Langs []string
	Zone  string
}

// Languages returns the configured list
func (s StaticSignals) Languages() ([]string, error) {
	if len(s.Langs) == 0 {
		return nil, ErrNoSignal
	}
	return s.Langs, nil
}

// TimeZone returns the configured zone
func (s StaticSignals) TimeZone() (string, error) {
	if s.Zone == "" {
		return "", ErrNoSignal
	}
	return s.Zone, nil
}

// HeaderSignals reads an HTTP Accept-Language value and a client supplied zone name.
type HeaderSignals struct {
	AcceptLanguage string
	Zone           string
}

// Languages parses Accept-Language; tags come back ordered by quality.
// Malformed entries are skipped, the rest of the header still counts.
func (h HeaderSignals) Languages() ([]string, error) {
	if strings.TrimSpace(h.AcceptLanguage) == "" {
		return nil, ErrNoSignal
	}

	type weighted struct {
		tag string
		q   float32
	}
	var prefs []weighted
	for _, entry := range strings.Split(h.AcceptLanguage, ",") {
		tags, qs, err := language.ParseAcceptLanguage(entry)
		if err != nil || len(tags) == 0 {
			continue
		}
		prefs = append(prefs, weighted{tag: tags[0].String(), q: qs[0]})
	}
	if len(prefs) == 0 {
		return nil, fmt.Errorf("%w: no usable tag in %q", ErrNoSignal, h.AcceptLanguage)
	}

	sort.SliceStable(prefs, func(i, j int) bool { return prefs[i].q > prefs[j].q })
	langs := make([]string, len(prefs))
	for i, p := range prefs {
		langs[i] = p.tag
	}
	return langs, nil
}

// TimeZone returns the zone passed by the client
func (h HeaderSignals) TimeZone() (string, error) {
	if h.Zone == "" {
		return "", ErrNoSignal
	}
	return h.Zone, nil
}

// EnvSignals reads the locale of the running process.
// LANGUAGE wins over LC_ALL, LC_MESSAGES and LANG; TZ wins over the OS zone setting.
type EnvSignals struct{}

// Languages - process locale, falling back to the native OS preference list
func (EnvSignals) Languages() ([]string, error) {
	if v := os.Getenv("LANGUAGE"); v != "" {
		var langs []string
		for _, part := range strings.Split(v, ":") {
			if l := posixLocale(part); l != "" {
				langs = append(langs, l)
			}
		}
		if len(langs) > 0 {
			return langs, nil
		}
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if l := posixLocale(os.Getenv(name)); l != "" {
			return []string{l}, nil
		}
	}
	return nativeLanguages()
}

// TimeZone - TZ if set, otherwise the native OS zone
func (EnvSignals) TimeZone() (string, error) {
	if tz := strings.TrimPrefix(os.Getenv("TZ"), ":"); tz != "" {
		return tz, nil
	}
	return nativeTimeZone()
}

// posixLocale turns "en_GB.UTF-8@euro" into "en-GB"; C and POSIX carry no preference.
func posixLocale(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// zoneFromLink extracts "Europe/London" from a zoneinfo path
func zoneFromLink(target string) (string, error) {
	const marker = "zoneinfo/"
	i := strings.LastIndex(target, marker)
	if i < 0 || i+len(marker) == len(target) {
		return "", ErrNoSignal
	}
	return target[i+len(marker):], nil
}
