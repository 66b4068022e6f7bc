package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/suspensionlab/seedtools/internal/store"
)

// PRODUCTS_COLLECTION is where catalog products live.
const PRODUCTS_COLLECTION = "suspension_products"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// Product is a suspension product read from a catalog file.
type Product struct {
	Brand string
	Model string
	Year  string
	Type  string

	// Raw holds every field of the record as read, including the ones above.
	Raw map[string]interface{}
}

func slug(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "_")
}

// ID derives the document ID of the product from its brand, model, year, and type.
// The same record always maps to the same ID, so re-seeding overwrites rather than duplicates.
func (p Product) ID() string {
	return fmt.Sprintf("%s_%s_%s_%s", slug(p.Brand), slug(p.Model), p.Year, p.Type)
}

// Fields returns the document payload for the product at the given catalog version.
func (p Product) Fields(version int) map[string]interface{} {
	m := make(map[string]interface{}, len(p.Raw)+4)
	for k, v := range p.Raw {
		m[k] = v
	}
	m["id"] = p.ID()
	m["version"] = version
	m["createdAt"] = store.ServerTimestamp
	m["updatedAt"] = store.ServerTimestamp
	return m
}

func (p Product) String() string {
	return fmt.Sprintf("%s %s %s (%s)", p.Year, p.Brand, p.Model, p.Type)
}

func requiredString(raw map[string]interface{}, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required field '%s'", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field '%s' is %T, not a string", key, v)
	}
	if s == "" {
		return "", fmt.Errorf("required field '%s' is empty", key)
	}
	return s, nil
}

// year accepts a string or a number.
func year(raw map[string]interface{}) (string, error) {
	switch y := raw["year"].(type) {
	case nil:
		return "", fmt.Errorf("missing required field 'year'")
	case string:
		if y == "" {
			return "", fmt.Errorf("required field 'year' is empty")
		}
		return y, nil
	case int64:
		return strconv.FormatInt(y, 10), nil
	case float64:
		return strconv.FormatFloat(y, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("field 'year' is %T, not a string or number", y)
	}
}

// newProduct validates a raw record.
func newProduct(raw map[string]interface{}) (Product, error) {
	var p Product
	var err error
	if p.Brand, err = requiredString(raw, "brand"); err != nil {
		return p, err
	}
	if p.Model, err = requiredString(raw, "model"); err != nil {
		return p, err
	}
	if p.Year, err = year(raw); err != nil {
		return p, err
	}
	if p.Type, err = requiredString(raw, "type"); err != nil {
		return p, err
	}
	p.Raw = raw
	return p, nil
}
