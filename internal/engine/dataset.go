package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DataSet holds records keyed by schema name.
type DataSet struct {
	Definitions map[string][]Record `yaml:"definitions,omitempty"`
	Overrides   map[string][]Record `yaml:"overrides,omitempty"`
	Instances   map[string][]Record `yaml:"instances,omitempty"`
}

// ParseDataSet decodes a YAML data set.
func ParseDataSet(data []byte) (*DataSet, error) {
	var ds DataSet

	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse data set: %w", err)
	}

	return &ds, nil
}

// LoadDataSet reads and decodes a YAML data set file.
func LoadDataSet(path string) (*DataSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data set %s: %w", path, err)
	}

	return ParseDataSet(data)
}

// MarshalRecords encodes resolved records as YAML.
func MarshalRecords(recs []Record) ([]byte, error) {
	return yaml.Marshal(recs)
}
