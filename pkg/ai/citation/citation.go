package citation

import (
	"regexp"
	"strconv"
)

// Citation marker pattern: [1], [2], ...
var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// Citation links one marker occurrence in a response to a source.
type Citation struct {
	Index       int    // 1-based position in the ready-source list
	SourceId    string // resolved source id
	SourceName  string
	OriginalRaw string // the matched marker text, e.g. "[2]"
}

// ResolveResult contains the resolved citations of one model response.
type ResolveResult struct {
	Citations []Citation
	HasCites  bool
}

// SourceRef is the minimal view of a citable source.
type SourceRef struct {
	Id   string
	Name string
}

// Resolve extracts [n] markers from a model response and resolves each
// against the given sources, where marker [k] refers to sources[k-1].
// Markers whose number falls outside the list (including [0]) are left
// unresolved and omitted from the result; the response text is never
// rewritten. Duplicate markers resolve once per distinct index.
func Resolve(response string, sources []SourceRef) *ResolveResult {
	result := &ResolveResult{
		Citations: make([]Citation, 0),
	}

	seen := make(map[int]bool)
	matches := markerPattern.FindAllStringSubmatch(response, -1)
	for _, match := range matches {
		idx, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		if idx < 1 || idx > len(sources) {
			continue
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		result.Citations = append(result.Citations, Citation{
			Index:       idx,
			SourceId:    sources[idx-1].Id,
			SourceName:  sources[idx-1].Name,
			OriginalRaw: match[0],
		})
	}

	result.HasCites = len(result.Citations) > 0
	return result
}
