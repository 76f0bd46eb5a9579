package textproc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Stoplist is the on-disk stopword file format
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stoplist: %w", err)
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("failed to parse stoplist %s: %w", path, err)
	}

	return &sl, nil
}
