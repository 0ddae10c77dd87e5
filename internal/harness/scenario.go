package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"framesync/internal/importer"
)

// Scenario defines an end-to-end planning scenario.
// Scenarios compile a timeline document, import its clips from stub
// descriptors, run the full synchronization/composition pipeline, and
// evaluate probe queries at fixed times.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is the path to the CUE timeline document, relative to the
	// scenario file location unless absolute.
	Document string `yaml:"document"`

	// Descriptors maps clip segment IDs to stubbed clip service reports.
	// Clips in the document without a stub import as missing descriptors,
	// which is itself a useful scenario.
	Descriptors map[string]DescriptorStub `yaml:"descriptors,omitempty"`

	// Probes lists times (seconds) at which sync point queries and
	// animation values are evaluated against the final plan.
	Probes []float64 `yaml:"probes,omitempty"`
}

// DescriptorStub is the YAML form of a clip service report.
type DescriptorStub struct {
	Status     string  `yaml:"status"`
	FilePath   string  `yaml:"file_path,omitempty"`
	Duration   float64 `yaml:"duration,omitempty"`
	Resolution [2]int  `yaml:"resolution,flow,omitempty"`
	Error      string  `yaml:"error,omitempty"`
}

// descriptor converts a stub into the importer's descriptor for one clip ID.
func (d DescriptorStub) descriptor(id string) importer.Descriptor {
	return importer.Descriptor{
		ID:         id,
		Status:     d.Status,
		FilePath:   d.FilePath,
		Duration:   d.Duration,
		Resolution: d.Resolution,
		Error:      d.Error,
	}
}

// DescriptorMap converts all stubs into the map Import consumes.
func (s *Scenario) DescriptorMap() map[string]importer.Descriptor {
	descs := make(map[string]importer.Descriptor, len(s.Descriptors))
	for id, stub := range s.Descriptors {
		descs[id] = stub.descriptor(id)
	}
	return descs
}

// LoadScenario reads and parses a scenario YAML file. The document path is
// resolved relative to the scenario file. Returns an error if the file is
// malformed, contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "probe:" vs "probes:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if !filepath.IsAbs(scenario.Document) && scenario.Document != "" {
		scenario.Document = filepath.Join(filepath.Dir(path), scenario.Document)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Document == "" {
		return fmt.Errorf("document is required")
	}
	if _, err := os.Stat(s.Document); os.IsNotExist(err) {
		return fmt.Errorf("document not found: %s", s.Document)
	}

	for id, stub := range s.Descriptors {
		if stub.Status == "" {
			return fmt.Errorf("descriptors[%s]: status is required", id)
		}
	}

	for i, at := range s.Probes {
		if at < 0 {
			return fmt.Errorf("probes[%d]: time must not be negative", i)
		}
	}

	return nil
}
