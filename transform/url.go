package transform

import (
	"net/url"
	"strings"

	"github.com/gyaneshwarpardhi/timeslice/event"
)

// SplitURLEvents derives structured attributes from each event's "url" value:
//
//	protocol    scheme
//	domain      host, with a leading "www." stripped
//	path        the path up to the last segment's first ";"
//	params      the ";"-suffix of the last path segment
//	options     the query string
//	identifier  the fragment
//
// Absent URL components yield empty strings. Events without a string "url"
// attribute, or with one that does not parse, pass through unchanged. Input
// events are not mutated; derived attributes go on a copied map.
func SplitURLEvents(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		out = append(out, splitURLEvent(e))
	}
	return out
}

func splitURLEvent(e event.Event) event.Event {
	raw, ok := e.Data["url"].(string)
	if !ok {
		return e
	}
	u, err := url.Parse(raw)
	if err != nil {
		return e
	}
	path, params := splitParams(u.Path)

	data := e.CloneData()
	data["protocol"] = u.Scheme
	data["domain"] = strings.TrimPrefix(u.Host, "www.")
	data["path"] = path
	data["params"] = params
	data["options"] = u.RawQuery
	data["identifier"] = u.Fragment

	derived := e
	derived.Data = data
	return derived
}

// splitParams separates path parameters from the last path segment. Only the
// final segment may carry a ";"-suffix; earlier segments keep theirs.
func splitParams(path string) (string, string) {
	segStart := strings.LastIndex(path, "/") + 1
	if i := strings.Index(path[segStart:], ";"); i >= 0 {
		cut := segStart + i
		return path[:cut], path[cut+1:]
	}
	return path, ""
}
