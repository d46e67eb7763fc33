// Package presenter derives display strings from a generation's canonical
// content. Everything here is pure text processing: preview/body extraction
// is a best-effort formatting aid, not a structural parse, and never touches
// stored data. Output keeps its markdown syntax intact; rendering is the
// client's job.
package presenter

import (
	"regexp"
	"strings"
)

var (
	emphasisRe = regexp.MustCompile(`\*\*|__`)
	// titleRe captures the "Título Impactante:" section up to a run of
	// three or more dash-like characters.
	titleRe        = regexp.MustCompile(`(?s)Título Impactante:(.*?)[-–—]{3,}`)
	dashRunRe      = regexp.MustCompile(`\s*[-–—]{2,}\s*`)
	isolatedDashRe = regexp.MustCompile(`(^|\s)[-–—](\s|$)`)
	separatorRe    = regexp.MustCompile(`^[-–—]{3,}[ \t]*\n?`)
	newlineRunRe   = regexp.MustCompile(`\n+`)
)

// StripEmphasis removes literal bold/italic markdown emphasis markers.
// Used wherever a short plain snippet is needed instead of rendered markup.
func StripEmphasis(text string) string {
	return emphasisRe.ReplaceAllString(text, "")
}

// ExtractPreview returns the short excerpt shown in list and summary views.
//
// If the content carries a labeled "Título Impactante:" section terminated by
// a dash run, the preview is that label plus the section text with newlines
// collapsed. Otherwise it degrades to the first two non-empty lines joined by
// a space, with emphasis markers and stray dashes cleaned up.
func ExtractPreview(content string) string {
	if m := titleRe.FindStringSubmatch(content); m != nil {
		titulo := strings.TrimSpace(strings.ReplaceAll(m[1], "\n", " "))
		return "Título Impactante: " + titulo
	}

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 2 {
			break
		}
	}
	preview := strings.Join(lines, " ")

	preview = StripEmphasis(preview)
	preview = dashRunRe.ReplaceAllString(preview, " ")
	preview = stripIsolatedDashes(preview)
	return strings.TrimSpace(preview)
}

// stripIsolatedDashes removes single dash-like characters surrounded by
// whitespace or string boundaries. Applied repeatedly because each pass
// consumes the whitespace that may delimit the next match.
func stripIsolatedDashes(s string) string {
	for {
		out := isolatedDashRe.ReplaceAllString(s, " $2")
		if out == s {
			return s
		}
		s = out
	}
}

// ExtractBody returns the content that remains once the preview excerpt is
// removed. Non-preview content is never dropped: when the preview cannot be
// located at the start of the content, the full content is returned. The
// result has paragraph spacing applied and restarts after the dash separator
// that terminated a labeled title section.
func ExtractBody(content string) string {
	preview := strings.TrimSpace(ExtractPreview(content))

	body := content
	if preview != "" {
		if rest, ok := stripPrefixLoose(content, preview); ok {
			body = rest
			body = separatorRe.ReplaceAllString(body, "")
			body = strings.TrimLeft(body, " \t\r\n")
		}
	}

	return spaceParagraphs(body)
}

// stripPrefixLoose removes prefix from s. The preview joins lines with
// spaces and strips emphasis markers, so an exact match is tried first and
// then a whitespace-insensitive token match against the raw content. The
// token match never crosses a blank line: a paragraph boundary cannot sit
// inside a preview, and honoring that keeps re-splitting already-split
// output stable.
func stripPrefixLoose(s, prefix string) (string, bool) {
	if strings.HasPrefix(s, prefix) {
		return strings.TrimLeft(s[len(prefix):], " \t\r\n"), true
	}

	tokens := strings.Fields(prefix)
	if len(tokens) == 0 {
		return s, false
	}
	pos := 0
	for i, tok := range tokens {
		newlines := 0
		for pos < len(s) && isSpace(s[pos]) {
			if s[pos] == '\n' {
				newlines++
			}
			pos++
		}
		if i > 0 && newlines > 1 {
			return s, false
		}
		if !strings.HasPrefix(s[pos:], tok) {
			return s, false
		}
		pos += len(tok)
	}
	return strings.TrimLeft(s[pos:], " \t\r\n"), true
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// spaceParagraphs doubles every lone newline so single line breaks render as
// paragraph breaks. Runs of two or more newlines are left untouched, which
// makes the transform idempotent.
func spaceParagraphs(text string) string {
	return newlineRunRe.ReplaceAllStringFunc(text, func(run string) string {
		if len(run) == 1 {
			return "\n\n"
		}
		return run
	})
}
