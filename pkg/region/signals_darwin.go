//go:build darwin

package region

import (
	// Standard libraries
	"os"
	"os/exec"
	"strings"
)

// nativeTimeZone reads the /etc/localtime symlink set by System Settings.
func nativeTimeZone() (string, error) {
	target, err := os.Readlink("/etc/localtime")
	if err != nil {
		return "", ErrNoSignal
	}
	return zoneFromLink(target)
}

// nativeLanguages parses `defaults read -g AppleLanguages`, which prints a plist array:
//
//	(
//	    "en-GB",
//	    "fr-FR"
//	)
func nativeLanguages() ([]string, error) {
	out, err := exec.Command("defaults", "read", "-g", "AppleLanguages").Output()
	if err != nil {
		return nil, ErrNoSignal
	}

	var langs []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.Trim(strings.TrimSpace(line), `(),"`)
		if line != "" {
			langs = append(langs, line)
		}
	}
	if len(langs) == 0 {
		return nil, ErrNoSignal
	}
	return langs, nil
}
