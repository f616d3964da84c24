package journal

import (
	"regexp"
	"time"
)

// TimestampFormat is the layout used in version separator lines. The format
// is locale-independent so records written by different clients stay parseable.
const TimestampFormat = "2006-01-02 15:04:05"

// separatorRE matches the line that divides content versions inside a single
// content string. The stored format is, newest first:
//
//	<current>\n\n--- 2024-03-01 14:05:33 ---\n\n<previous block>
//
// This layout is shared with records migrated from the legacy system and must
// not change.
var separatorRE = regexp.MustCompile(`\n\n--- (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) ---\n\n`)

// ContentVersion is one superseded snapshot of an entry's content.
type ContentVersion struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// VersionedContent is the decoded form of a journal entry's content field.
// Current is the newest text; Previous holds superseded snapshots, most
// recent first.
type VersionedContent struct {
	Current  string           `json:"current"`
	Previous []ContentVersion `json:"previous"`
}

// ParseVersionedContent decodes a stored content string into its current text
// and prior versions. It never fails: content with no separators, or with
// history the separator pattern cannot match, decodes as a single current
// segment with no previous versions.
func ParseVersionedContent(content string) VersionedContent {
	if content == "" {
		return VersionedContent{}
	}

	parts := separatorRE.Split(content, -1)
	if len(parts) <= 1 {
		return VersionedContent{Current: content}
	}

	matches := separatorRE.FindAllStringSubmatch(content, -1)

	vc := VersionedContent{Current: parts[0]}
	for i, part := range parts[1:] {
		ts := "unknown date"
		if i < len(matches) {
			ts = matches[i][1]
		}
		vc.Previous = append(vc.Previous, ContentVersion{Content: part, Timestamp: ts})
	}
	return vc
}

// AppendVersion pushes the entire existing content down as one opaque block
// behind a fresh separator and makes newText the new current segment. Because
// the old block already encodes all older versions, the cost is proportional
// to the new text, not to the history.
func AppendVersion(existing, newText string, now time.Time) string {
	return newText + "\n\n--- " + now.Format(TimestampFormat) + " ---\n\n" + existing
}

// VersionCount returns the number of superseded versions encoded in content.
func VersionCount(content string) int {
	if content == "" {
		return 0
	}
	return len(separatorRE.FindAllStringIndex(content, -1))
}
