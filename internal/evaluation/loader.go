package evaluation

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
)

// LoadGoldenCases reads and parses a golden case set from a JSON file.
func LoadGoldenCases(path string) ([]GoldenCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden cases file: %w", err)
	}

	var cases []GoldenCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse golden cases: %w", err)
	}

	return cases, nil
}

// ValidateGoldenCases checks that all cases have required fields and that
// every expected condition exists in cat.
func ValidateGoldenCases(cases []GoldenCase, cat *catalog.Catalog) error {
	seen := make(map[string]struct{}, len(cases))

	for i, c := range cases {
		if c.ID == "" {
			return fmt.Errorf("case at index %d: missing id", i)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("case at index %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}

		if c.Symptoms == "" {
			return fmt.Errorf("case %q: missing symptoms", c.ID)
		}
		if len(c.ExpectedConditions) == 0 {
			return fmt.Errorf("case %q: no expected conditions", c.ID)
		}
		for _, name := range c.ExpectedConditions {
			if _, ok := cat.Get(name); !ok {
				return fmt.Errorf("case %q: unknown condition %q", c.ID, name)
			}
		}
		if !c.Difficulty.IsValid() {
			return fmt.Errorf("case %q: invalid difficulty %q (must be easy/medium/hard)", c.ID, c.Difficulty)
		}
	}

	return nil
}
