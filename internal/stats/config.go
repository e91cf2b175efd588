package stats

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadDescriptors reads the statBoxes list from a YAML, JSON or TOML file.
// An empty path returns the defaults.
func LoadDescriptors(path string) ([]Descriptor, error) {
	if path == "" {
		return DefaultDescriptors(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read stat config: %w", err)
	}

	var descriptors []Descriptor
	if err := v.UnmarshalKey("statBoxes", &descriptors); err != nil {
		return nil, fmt.Errorf("failed to parse stat config: %w", err)
	}

	for i, d := range descriptors {
		if d.ID == "" || d.Store == "" || d.DataKey == "" {
			return nil, fmt.Errorf("stat box %d: id, store and dataKey are required", i)
		}
		if d.Accessor == "" {
			descriptors[i].Accessor = "getValue"
		}
		if d.Title == "" {
			descriptors[i].Title = d.ID
		}
	}
	return descriptors, nil
}
