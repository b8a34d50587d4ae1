package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// GenerateDiff returns the change from before to after as diff-match-patch
// patch text, headed by a "# patch for <name>" line. It returns "" when the
// two texts are identical.
// Both sides are normalized first so CRLF files do not produce a diff on
// every line.
func GenerateDiff(name, before, after string) string {
	if before == after {
		return ""
	}
	before, after = normalize(before), normalize(after)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patchText := dmp.PatchToText(dmp.PatchMake(before, diffs))
	if patchText == "" {
		return ""
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("# patch for %s\n", name))
	out.WriteString(patchText)
	out.WriteString("\n")
	return out.String()
}

// normalize converts CRLF to LF.
func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
