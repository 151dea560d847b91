//go:build windows

package region

import (
	// Standard libraries
	"os/exec"
	"strings"
)

// nativeTimeZone - Windows zone ids ("GMT Standard Time") are not IANA names, so there is
// nothing the timezone rules could match.
func nativeTimeZone() (string, error) {
	return "", ErrNoSignal
}

// nativeLanguages asks PowerShell for the user's UI language list.
func nativeLanguages() ([]string, error) {
	psScript := `(Get-WinUserLanguageList).LanguageTag -join ","`
	out, err := exec.Command("powershell", "-NoProfile", "-Command", psScript).Output()
	if err != nil {
		return nil, ErrNoSignal
	}

	var langs []string
	for _, tag := range strings.Split(strings.TrimSpace(string(out)), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			langs = append(langs, tag)
		}
	}
	if len(langs) == 0 {
		return nil, ErrNoSignal
	}
	return langs, nil
}
