package config

import (
	// Standard libraries
	"encoding/json"
	"fmt"
	"os"
	"time"

	// Go files
	"github.com/Niutaq/Storelink/pkg/enhance"
	"github.com/Niutaq/Storelink/pkg/links"
)

// Duration is a custom type that wraps time.Duration for JSON unmarshaling
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler interface; numbers are nanoseconds, strings use time.ParseDuration
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("invalid duration type: %T", value)
	}
}

// PageDefaults represents the caller defaults applied to every marked element of a page.
type PageDefaults struct {
	Region    string            `json:"region"`
	Tag       string            `json:"tag"`
	Path      string            `json:"path"`
	Text      string            `json:"text"`
	Params    map[string]string `json:"params"`
	Regions   string            `json:"regions"`
	LinkClass string            `json:"linkClass"`
	// CurrentFirst and NewTab stay nil when absent so the grid keeps its own defaults
	CurrentFirst *bool    `json:"currentFirst"`
	NewTab       *bool    `json:"newTab"`
	CacheTTL     Duration `json:"cacheTTL"`
}

// EnhanceOptions converts the defaults for the element enhancer
func (p PageDefaults) EnhanceOptions() enhance.Options {
	return enhance.Options{
		Options: links.Options{
			Region: p.Region,
			Tag:    p.Tag,
			Path:   p.Path,
			Params: p.Params,
		},
		Text: p.Text,
	}
}

// GridOptions converts the defaults for the grid renderer
func (p PageDefaults) GridOptions() enhance.GridOptions {
	return enhance.GridOptions{
		Tag:          p.Tag,
		Regions:      p.Regions,
		CurrentFirst: p.CurrentFirst,
		LinkClass:    p.LinkClass,
		NewTab:       p.NewTab,
	}
}

// LoadDefaults reads a JSON file and unmarshal it into PageDefaults.
func LoadDefaults(filePath string) (PageDefaults, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return PageDefaults{}, fmt.Errorf("failed to read defaults file %s: %w", filePath, err)
	}

	defaults, err := LoadDefaultsFromBytes(fileData)
	if err != nil {
		return PageDefaults{}, fmt.Errorf("failed to load defaults from %s: %w", filePath, err)
	}
	return defaults, nil
}

// LoadDefaultsFromBytes unmarshalls byte data into PageDefaults.
func LoadDefaultsFromBytes(data []byte) (PageDefaults, error) {
	var defaults PageDefaults
	if err := json.Unmarshal(data, &defaults); err != nil {
		return PageDefaults{}, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	return defaults, nil
}
