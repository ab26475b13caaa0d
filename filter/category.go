package filter

import (
	"fmt"
	"strings"

	"github.com/alonana/perfshark/core"
	"golang.org/x/text/cases"
)

type Category string

const (
	None     Category = ""
	Xhr      Category = "xhr"
	Document Category = "document"
	Script   Category = "script"
	Image    Category = "image"
	Css      Category = "css"
)

var Categories = []Category{Xhr, Document, Script, Image, Css}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".svg"}

// ValidationError reports an unknown category name.
type ValidationError struct {
	Category string
	Allowed  []Category
}

func (e *ValidationError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i := 0; i < len(e.Allowed); i++ {
		allowed[i] = string(e.Allowed[i])
	}
	return fmt.Sprintf("invalid category %q, allowed categories are: %v", e.Category, strings.Join(allowed, ", "))
}

func fold(value string) string {
	return cases.Fold().String(value)
}

// ParseCategory resolves a category name case-insensitively. The empty name is None.
func ParseCategory(name string) (Category, error) {
	folded := fold(strings.TrimSpace(name))
	if folded == "" {
		return None, nil
	}
	for _, category := range Categories {
		if string(category) == folded {
			return category, nil
		}
	}
	return None, &ValidationError{Category: name, Allowed: Categories}
}

// Match tells whether the record belongs to the category.
// An absent mime type or url never satisfies its own condition.
func (c Category) Match(record *core.RequestRecord) bool {
	mimeType := ""
	if record.MimeType != nil {
		mimeType = fold(*record.MimeType)
	}
	url := ""
	if record.Url != nil {
		url = fold(*record.Url)
	}

	switch c {
	case Xhr:
		return containsAny(mimeType, "json", "xml") || containsAny(url, "/ajax/")
	case Document:
		return containsAny(mimeType, "html", "document")
	case Script:
		return containsAny(mimeType, "javascript") || containsAny(url, "js")
	case Image:
		return containsAny(mimeType, "image") || hasAnySuffix(url, imageExtensions...)
	case Css:
		return containsAny(mimeType, "css") || containsAny(url, ".css")
	default:
		return false
	}
}

func containsAny(value string, parts ...string) bool {
	if value == "" {
		return false
	}
	for _, part := range parts {
		if strings.Contains(value, part) {
			return true
		}
	}
	return false
}

func hasAnySuffix(value string, suffixes ...string) bool {
	if value == "" {
		return false
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}
	return false
}

// Apply keeps the records matching the category, in their original order.
func Apply(records []core.RequestRecord, category Category) []core.RequestRecord {
	if category == None {
		return records
	}

	filtered := make([]core.RequestRecord, 0)
	for i := 0; i < len(records); i++ {
		if category.Match(&records[i]) {
			filtered = append(filtered, records[i])
		}
	}
	core.V1("category %v kept %v of %v requests", category, len(filtered), len(records))
	return filtered
}
