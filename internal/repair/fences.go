package repair

import "regexp"

// Models regularly wrap the corrected code in a markdown fence even
// when told to return only code.
var fenceRe = regexp.MustCompile("(?s)^```[^\n]*\n(.*?)\n?```$")

// StripCodeFence removes a single enclosing markdown code block.
// Anything that is not exactly one fenced block is returned untouched.
func StripCodeFence(text string) string {
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}
