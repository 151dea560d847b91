//go:build !darwin && !windows && !linux

package region

// nativeTimeZone is a stub for unsupported systems.
func nativeTimeZone() (string, error) {
	return "", ErrNoSignal
}

// nativeLanguages is a stub for unsupported systems.
func nativeLanguages() ([]string, error) {
	return nil, ErrNoSignal
}
