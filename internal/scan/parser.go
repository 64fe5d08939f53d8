package scan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrParse = errors.New("scan text is not valid JSON")

// Result mirrors the fields the extraction prompt asks the model for.
type Result struct {
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	SKU         string `json:"sku"`
	ExpiredDate string `json:"expired_date"`
}

// Parse strips the markdown code fences the model tends to wrap its answer in
// and decodes the remaining JSON object.
func Parse(text string) (*Result, error) {
	cleaned := strings.NewReplacer("```json", "", "```", "").Replace(text)
	cleaned = strings.TrimSpace(cleaned)

	var res Result
	if err := json.Unmarshal([]byte(cleaned), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return &res, nil
}
