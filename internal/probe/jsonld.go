package probe

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CountJSONLDEvents counts top-level JSON-LD objects whose @type mentions
// "event". Blocks that fail to decode are skipped.
func CountJSONLDEvents(doc *goquery.Document) int {
	count := 0
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		count += countEventObjects(s.Text())
	})
	return count
}

func countEventObjects(payload string) int {
	var data interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return 0
	}

	items, ok := data.([]interface{})
	if !ok {
		items = []interface{}{data}
	}

	count := 0
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if isEventType(obj["@type"]) {
			count++
		}
	}
	return count
}

// isEventType accepts "@type" as a string or a list of strings
func isEventType(v interface{}) bool {
	switch t := v.(type) {
	case string:
		return strings.Contains(strings.ToLower(t), "event")
	case []interface{}:
		for _, elem := range t {
			if s, ok := elem.(string); ok && strings.Contains(strings.ToLower(s), "event") {
				return true
			}
		}
	}
	return false
}
