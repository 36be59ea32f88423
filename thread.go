package threadposter

import (
	"regexp"
	"sort"
	"strings"
)

// PostUnit is one post extracted from a thread document.
type PostUnit struct {
	SequenceIndex int
	Body          string
}

var (
	tweetMarker   = regexp.MustCompile(`TWEET \p{Nd}+/\p{Nd}+:`)
	ordinalPrefix = regexp.MustCompile(`^(?:[1-9])/`)
	lineEndings   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// ParseThread splits a thread document into posts, in document order.
//
// Documents containing a "TWEET n/m:" marker are split on those markers; a
// block ends at the next marker, at the "===== CHARACTER COUNTS =====" line or
// at the end of the document. Any other document is read as numbered lines:
// a line starting with "1/" .. "9/" opens a post and a "---" line closes it.
// Blank posts are dropped. The result is empty, not an error, when nothing
// could be extracted. CRLF and lone CR line endings are read as LF.
func ParseThread(doc string) []PostUnit {
	doc = lineEndings.Replace(doc)

	var bodies []string
	if tweetMarker.MatchString(doc) {
		bodies = parseMarkedThread(doc)
	} else {
		bodies = parseNumberedThread(doc)
	}

	units := make([]PostUnit, 0, len(bodies))
	for _, body := range bodies {
		units = append(units, PostUnit{SequenceIndex: len(units), Body: body})
	}
	return units
}

func parseMarkedThread(doc string) []string {
	markers := tweetMarker.FindAllStringIndex(doc, -1)
	terminators := indexAll(doc, characterCountsTerminator)

	var bodies []string
	for i, marker := range markers {
		start := marker[1]
		end := len(doc)
		if i+1 < len(markers) {
			end = markers[i+1][0]
		}
		// the first terminator after the marker may come before the next marker
		if j := sort.SearchInts(terminators, start); j < len(terminators) && terminators[j] < end {
			end = terminators[j]
		}
		if body := strings.TrimSpace(doc[start:end]); body != "" {
			bodies = append(bodies, body)
		}
	}
	return bodies
}

func parseNumberedThread(doc string) []string {
	var (
		bodies  []string
		current strings.Builder
		open    bool
	)
	closeUnit := func() {
		if body := stripOrdinal(strings.TrimSpace(current.String())); body != "" {
			bodies = append(bodies, body)
		}
		current.Reset()
		open = false
	}

	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case ordinalPrefix.MatchString(trimmed):
			closeUnit()
			current.WriteString(trimmed)
			open = true
		case trimmed == "---":
			closeUnit()
		case open:
			current.WriteString("\n")
			current.WriteString(line)
		}
	}
	closeUnit()
	return bodies
}

// stripOrdinal drops the first whitespace-delimited token of the first line
// when the body starts with an ordinal such as "3/7". Whitespace runs on that
// line collapse to single spaces. Later lines are untouched.
func stripOrdinal(body string) string {
	if !ordinalPrefix.MatchString(body) {
		return body
	}
	lines := strings.Split(body, "\n")
	fields := strings.Fields(lines[0])
	lines[0] = strings.Join(fields[1:], " ")
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func indexAll(s, substr string) []int {
	var idx []int
	for offset := 0; ; {
		i := strings.Index(s[offset:], substr)
		if i < 0 {
			return idx
		}
		idx = append(idx, offset+i)
		offset += i + len(substr)
	}
}
