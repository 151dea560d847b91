//go:build linux

package region

import (
	// Standard libraries
	"os"
	"strings"
)

// nativeTimeZone follows the /etc/localtime symlink, then tries /etc/timezone (Debian).
func nativeTimeZone() (string, error) {
	if target, err := os.Readlink("/etc/localtime"); err == nil {
		if zone, err := zoneFromLink(target); err == nil {
			return zone, nil
		}
	}

	content, err := os.ReadFile("/etc/timezone")
	if err != nil {
		return "", ErrNoSignal
	}
	zone := strings.TrimSpace(string(content))
	if zone == "" {
		return "", ErrNoSignal
	}
	return zone, nil
}

// nativeLanguages has nothing beyond the environment on linux.
func nativeLanguages() ([]string, error) {
	return nil, ErrNoSignal
}
