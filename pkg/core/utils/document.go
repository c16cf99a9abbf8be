package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

var ErrUnparseable = errors.New("document could not be parsed")

// RepairJSON fixes hand-edited JSON: unquoted keys, single quotes, trailing
// commas, comments, unclosed brackets and surrounding code fences.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("failed to repair json: %w", err)
	}
	return repaired, nil
}

// HJSONToJSON converts an Hjson document to standard JSON.
func HJSONToJSON(data string) (string, error) {
	var v interface{}
	if err := hjson.Unmarshal([]byte(data), &v); err != nil {
		return "", fmt.Errorf("failed to parse hjson: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode json: %w", err)
	}
	return string(out), nil
}

// ParseDocument decodes input into out, trying in order:
//  1. strict JSON
//  2. Hjson (comments, unquoted keys and strings, optional commas)
//  3. repaired JSON (single quotes, unclosed brackets, code fences)
//
// It returns the JSON text that decoded successfully.
func ParseDocument(input string, out interface{}) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: empty input", ErrUnparseable)
	}

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return input, nil
	}

	if converted, err := HJSONToJSON(input); err == nil {
		if err := json.Unmarshal([]byte(converted), out); err == nil {
			return converted, nil
		}
	}

	repaired, err := RepairJSON(input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	return repaired, nil
}
