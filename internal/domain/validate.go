package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// InvalidWeightMessage is shown to the user when weight input is rejected.
const InvalidWeightMessage = "Enter a valid weight"

// ErrInvalidWeight indicates that weight input could not be parsed as a number.
var ErrInvalidWeight = errors.New(InvalidWeightMessage)

// ParseWeight parses user weight input. Any finite real number is accepted,
// including zero and negative values.
func ParseWeight(input string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return 0, ErrInvalidWeight
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidWeight
	}
	return v, nil
}

// ValidWeight reports whether input can be recorded as a weight.
func ValidWeight(input string) bool {
	_, err := ParseWeight(input)
	return err == nil
}
