// validation.go
package main

import (
	"fmt"
	"strings"
)

// ValidationLimits are the boundary constraints enforced before data reaches
// the analysis core.
type ValidationLimits struct {
	MinRespondents int
	MaxRespondents int
	MinDimensions  int
	MaxDimensions  int
	MinWords       int
	MaxWords       int
}

func DefaultValidationLimits() ValidationLimits {
	return ValidationLimits{
		MinRespondents: 30,
		MaxRespondents: 10000,
		MinDimensions:  3,
		MaxDimensions:  20,
		MinWords:       100,
		MaxWords:       5000,
	}
}

func (l ValidationLimits) ValidateRespondentCount(count int) error {
	if count < l.MinRespondents {
		return fmt.Errorf("too few respondents: %d (minimum: %d)", count, l.MinRespondents)
	}
	if count > l.MaxRespondents {
		return fmt.Errorf("too many respondents: %d (maximum: %d)", count, l.MaxRespondents)
	}
	return nil
}

func (l ValidationLimits) ValidateDimensionCount(count int) error {
	if count < l.MinDimensions {
		return fmt.Errorf("too few rating dimensions: %d (minimum: %d)", count, l.MinDimensions)
	}
	if count > l.MaxDimensions {
		return fmt.Errorf("too many rating dimensions: %d (maximum: %d)", count, l.MaxDimensions)
	}
	return nil
}

// ValidateQualitativeText checks the word count window for keyword-extraction
// input.
func (l ValidationLimits) ValidateQualitativeText(text string) error {
	words := len(strings.Fields(text))
	if words < l.MinWords {
		return fmt.Errorf("qualitative text too short: %d words (minimum: %d)", words, l.MinWords)
	}
	if words > l.MaxWords {
		return fmt.Errorf("qualitative text too long: %d words (maximum: %d)", words, l.MaxWords)
	}
	return nil
}
