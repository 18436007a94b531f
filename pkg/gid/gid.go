// Package gid parses remote-platform global identifiers of the form
// scheme://namespace/Type/numericId (e.g. "gid://shopify/Order/5996624543913").
package gid

import "strings"

// Parsed holds the trailing type/id segments of a global identifier.
type Parsed struct {
	Type string
	ID   string
}

// Parse splits a global identifier on "/" and returns the last two segments.
// Malformed input never fails: with a single segment the whole input becomes
// the ID and Type stays empty, so callers match on an empty ID as "no match".
func Parse(gid string) Parsed {
	parts := strings.Split(gid, "/")
	p := Parsed{ID: parts[len(parts)-1]}
	if len(parts) >= 2 {
		p.Type = parts[len(parts)-2]
	}
	return p
}

// ExtractID returns only the trailing id segment of a global identifier.
func ExtractID(gid string) string {
	return Parse(gid).ID
}

// Order builds an order global identifier from a bare id.
func Order(id string) string {
	return "gid://shopify/Order/" + id
}
