package osmsplit

import (
	"strings"

	"github.com/paulmach/osm"
)

var (
	// Values of the `junction` tag marking circular junctions
	junctionTypes = map[string]struct{}{
		"circular":   {},
		"roundabout": {},
	}

	// Tag keys implying that a closed way outlines an area rather than a line
	areaKeys = map[string]struct{}{
		"amenity":       {},
		"area:highway":  {},
		"boundary":      {},
		"building":      {},
		"building:part": {},
		"historic":      {},
		"landuse":       {},
		"leisure":       {},
		"man_made":      {},
		"natural":       {},
		"place":         {},
		"shop":          {},
		"tourism":       {},
	}

	// Tag keys carrying editing metadata instead of feature semantics
	uninterestingTagKeys = map[string]struct{}{
		"attribution": {},
		"created_by":  {},
		"odbl":        {},
		"source":      {},
	}
)

// isInterestingTag reports whether a tag key describes the feature itself
func isInterestingTag(key string) bool {
	if _, ok := uninterestingTagKeys[key]; ok {
		return false
	}
	if strings.HasPrefix(key, "source:") || strings.HasPrefix(key, "source_ref") || strings.HasPrefix(key, "tiger:") {
		return false
	}
	return true
}

// countInterestingTags returns number of tags describing the feature itself
func countInterestingTags(tags osm.Tags) int {
	count := 0
	for _, tag := range tags {
		if isInterestingTag(tag.Key) {
			count++
		}
	}
	return count
}

// copyTags returns an independent copy of given tags
func copyTags(tags osm.Tags) osm.Tags {
	if tags == nil {
		return nil
	}
	copied := make(osm.Tags, len(tags))
	copy(copied, tags)
	return copied
}

// setTag returns a copy of given tags with the key set to the value
func setTag(tags osm.Tags, key, value string) osm.Tags {
	updated := make(osm.Tags, 0, len(tags)+1)
	replaced := false
	for _, tag := range tags {
		if tag.Key == key {
			updated = append(updated, osm.Tag{Key: key, Value: value})
			replaced = true
			continue
		}
		updated = append(updated, tag)
	}
	if !replaced {
		updated = append(updated, osm.Tag{Key: key, Value: value})
	}
	return updated
}

// mergeTags merges src into dst and returns the result with a flag telling
// whether anything has been changed. Conflicting values of the same key are
// combined into semicolon-separated list.
func mergeTags(dst, src osm.Tags) (osm.Tags, bool) {
	merged := copyTags(dst)
	changed := false
	for _, tag := range src {
		current := merged.Find(tag.Key)
		if current == "" {
			merged = append(merged, osm.Tag{Key: tag.Key, Value: tag.Value})
			changed = true
		} else if current != tag.Value {
			merged = setTag(merged, tag.Key, semicolonUnion(current, tag.Value))
			changed = true
		}
	}
	return merged, changed
}

// semicolonUnion combines two semicolon-separated value lists keeping every
// value once
func semicolonUnion(first, second string) string {
	values := strings.Split(first, ";")
	for i := range values {
		values[i] = strings.TrimSpace(values[i])
	}
	for _, value := range strings.Split(second, ";") {
		value = strings.TrimSpace(value)
		seen := false
		for _, present := range values {
			if present == value {
				seen = true
				break
			}
		}
		if !seen {
			values = append(values, value)
		}
	}
	return strings.Join(values, ";")
}
