package llm

import (
	"fmt"
	"os"
	"path/filepath"

	"segcraft/internal/schema"
)

// FormatYaDirectText is the format served by the first mock fixture; every
// other format shares the second fixture.
const FormatYaDirectText = "yadirect_text"

// Mock fixture file names inside the samples directory.
const (
	mockFixtureYaDirect = "sample_output_1.json"
	mockFixtureDefault  = "sample_output_2.json"
)

func mockFixtureFor(formatID string) string {
	if formatID == FormatYaDirectText {
		return mockFixtureYaDirect
	}
	return mockFixtureDefault
}

// LoadMockBundle loads the canned fixture for the requested format and runs
// it through the same validation every live result gets. A fixture that no
// longer validates is reported as an error, not silently surfaced.
func LoadMockBundle(samplesDir, formatID string) (*schema.CopyBundle, error) {
	path := filepath.Join(samplesDir, mockFixtureFor(formatID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mock fixture not found: %s: %w", path, err)
	}

	bundle, err := schema.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("mock fixture %s is not valid JSON: %w", path, err)
	}

	schema.NormalizeCharCounts(bundle)
	if vs := schema.Validate(bundle); len(vs) > 0 {
		return nil, &SchemaError{Violations: vs}
	}
	return bundle, nil
}
