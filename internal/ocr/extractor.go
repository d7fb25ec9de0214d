package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/Roshan1923/BillBrain/internal/models"
)

// ErrUnparsable reports that the extraction service answered but its output
// could not be decoded into receipt fields. Callers degrade to an empty
// result instead of failing the request.
var ErrUnparsable = errors.New("unparsable extraction output")

// Fields is the structured data extracted from a receipt image. Absent
// values stay at their zero value.
type Fields struct {
	MerchantName  string        `json:"merchant_name"`
	Date          string        `json:"date"`
	Total         float64       `json:"total"`
	Tax           float64       `json:"tax"`
	Items         []models.Item `json:"items"`
	PaymentMethod string        `json:"payment_method"`
}

// Extractor turns a receipt image into structured fields. The HTTP client
// below is the production implementation; tests swap in fakes.
type Extractor interface {
	Extract(ctx context.Context, imageBase64 string) (Fields, error)
}

// parseFields decodes the model's reply. The upstream is told to return bare
// JSON but routinely wraps it in markdown fences and mixes up value types,
// so decoding is deliberately forgiving.
func parseFields(content string) (Fields, error) {
	content = stripFences(strings.TrimSpace(content))

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Fields{}, ErrUnparsable
	}

	f := Fields{
		MerchantName:  asString(raw["merchant_name"]),
		Date:          asString(raw["date"]),
		Total:         asFloat(raw["total"]),
		Tax:           asFloat(raw["tax"]),
		PaymentMethod: asString(raw["payment_method"]),
		Items:         []models.Item{},
	}

	if items, ok := raw["items"].([]any); ok {
		for _, it := range items {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			f.Items = append(f.Items, models.Item{
				Name:  asString(m["name"]),
				Price: asFloat(m["price"]),
			})
		}
	}
	return f, nil
}

// stripFences removes a leading ```/```json fence and its closing fence.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = s[3:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
