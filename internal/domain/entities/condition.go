package entities

import "slices"

// Condition is a known skin condition with the keywords that point to it and
// the guidance shown when it is selected.
type Condition struct {
	Name            string   `json:"name" yaml:"name"`
	Keywords        []string `json:"keywords" yaml:"keywords"`
	Description     string   `json:"description" yaml:"description"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// Clone returns a deep copy of the condition.
func (c Condition) Clone() Condition {
	return Condition{
		Name:            c.Name,
		Keywords:        slices.Clone(c.Keywords),
		Description:     c.Description,
		Recommendations: slices.Clone(c.Recommendations),
	}
}
