package mining

import (
	"regexp"
	"sort"
	"strings"
)

// Concept buckets for portability mining. An issue is a candidate when
// OS and FIX keywords co-occur in the same sentence or line; the other
// buckets enrich the match report.
var concepts = map[string][]string{
	"OS": {
		"windows", "win32", "win64",
		"linux", "ubuntu", "debian", "fedora", "centos", "rhel", "arch", "alpine", "manjaro",
		"macos", "osx", "os x", "darwin",
		"unix", "posix",
		"freebsd", "openbsd", "netbsd", "dragonflybsd",
		"solaris", "illumos", "aix", "hp-ux",
		"wsl", "cygwin", "msys", "msys2", "mingw", "mingw32", "mingw64",
	},
	"FIX": {
		"fix", "fixes", "fixed", "bug", "bugfix", "regression",
		"broken", "breakage", "failing", "fail", "fails", "failure",
		"unbreak", "workaround",
		"portable", "portability", "cross-platform", "compatibility",
		"skip", "xfail", "skipif", "pytest.skip", "pytest.mark.skipif", "mark.skipif",
	},
	"TEST_CI": {
		"test", "tests", "pytest", "unittest", "nose", "tox", "nox",
		"ci", "workflow", "matrix", "runs-on",
		"github actions", "gha", "appveyor", "travis", "azure pipelines", "azure-devops",
	},
	"CAUSE": {
		"line ending", "newline", "crlf", "lf", "carriage return",
		"path separator", "backslash", "slash",
		"case sensitive", "case insensitive",
		"encoding", "utf-8", "latin-1", "cp1252", "locale",
		"timezone", "time zone", "dst",
		"permission denied", "executable", "chmod", "symlink",
		"o_text", "o_binary", "pathext", ".dll", ".so", "dynamic library",
	},
	"API": {
		"sys.platform", "os.name", "platform.system", "platform.release",
		"os.sep", "os.path", "pathlib", "ntpath", "posixpath",
		"subprocess", "encoding=", "newline=", "errors=", "universal_newlines",
	},
}

var conceptOrder = []string{"OS", "FIX", "TEST_CI", "CAUSE", "API"}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// "nt" (the Windows os.name value) only counts when quoted or
// standalone, otherwise it matches inside ordinary words.
var (
	ntQuotedRe     = regexp.MustCompile(`(?i)"nt"`)
	ntStandaloneRe = regexp.MustCompile(`(?i)(^|\s)nt($|\s)`)
	sentenceSplit  = regexp.MustCompile(`[.!?\n]`)
)

var compiledConcepts = compileConcepts()

func compileConcepts() map[string][]keywordPattern {
	compiled := make(map[string][]keywordPattern, len(concepts))
	for name, keywords := range concepts {
		var patterns []keywordPattern
		for _, kw := range keywords {
			patterns = append(patterns, keywordPattern{keyword: kw, re: compileKeyword(kw)})
		}
		compiled[name] = patterns
	}
	return compiled
}

// compileKeyword protects alphanumeric keywords with word boundaries
// so 'arch' does not match 'search', while keywords carrying special
// characters like '.dll' stay literal.
func compileKeyword(kw string) *regexp.Regexp {
	var left, right string
	if isAlnum(kw[0]) {
		left = `(^|[^A-Za-z0-9_])`
	}
	if isAlnum(kw[len(kw)-1]) {
		right = `($|[^A-Za-z0-9_])`
	}
	return regexp.MustCompile(`(?i)` + left + regexp.QuoteMeta(kw) + right)
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// MatchConcepts returns the keywords hit in text, organized by bucket.
func MatchConcepts(text string) map[string][]string {
	hits := make(map[string][]string)
	if text == "" {
		return hits
	}

	for name, patterns := range compiledConcepts {
		var found []string
		for _, p := range patterns {
			if p.re.MatchString(text) {
				found = append(found, p.keyword)
			}
		}
		if len(found) > 0 {
			sort.Strings(found)
			hits[name] = found
		}
	}

	if ntQuotedRe.MatchString(text) || ntStandaloneRe.MatchString(text) {
		hits["OS"] = append(hits["OS"], "nt")
		sort.Strings(hits["OS"])
	}

	return hits
}

// HasOSAndFix reports whether both gating buckets are present.
func HasOSAndFix(hits map[string][]string) bool {
	return len(hits["OS"]) > 0 && len(hits["FIX"]) > 0
}

// SentenceCooccurrence is the proximity gate: OS and FIX keywords must
// land in the same sentence or line, not just anywhere in the text.
func SentenceCooccurrence(text string) bool {
	if text == "" {
		return false
	}
	for _, frag := range sentenceSplit.Split(text, -1) {
		if frag == "" {
			continue
		}
		if HasOSAndFix(MatchConcepts(frag)) {
			return true
		}
	}
	return false
}

// FormatConceptHits renders hits for the output CSV, e.g.
// "OS=linux|windows; FIX=bug|fix".
func FormatConceptHits(hits map[string][]string) string {
	var parts []string
	for _, key := range conceptOrder {
		if len(hits[key]) > 0 {
			parts = append(parts, key+"="+strings.Join(dedup(hits[key]), "|"))
		}
	}
	return strings.Join(parts, "; ")
}

func dedup(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
