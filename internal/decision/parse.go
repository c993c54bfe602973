package decision

import (
	"fmt"
	"regexp"
	"strings"
)

// Reply is a structured interpreter answer in the expected
// "Rule N (situation), Action: ..., Explanation: ..." form.
type Reply struct {
	Rule        string
	Situation   string
	Action      string
	Explanation string
}

var replyPattern = regexp.MustCompile(
	`Rule\s+(\d+(?:\.\d+)?)\s*\(([\w-]+)\)\s*,\s*Action:\s*([^,]+(?:,[^,]+)?)\s*,\s*[Ee]xplanation:\s*(.+)`)

var validSituations = map[string]bool{
	"head-on":    true,
	"overtaking": true,
	"crossing":   true,
}

// ParseReply parses a structured interpreter reply. A reply that does
// not match the expected shape returns an error; the keyword extractor
// still gets a chance on the raw text.
func ParseReply(raw string) (Reply, error) {
	m := replyPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Reply{}, fmt.Errorf("%w: no structured reply", ErrUnrecognized)
	}
	r := Reply{
		Rule:        m[1],
		Situation:   strings.ToLower(m[2]),
		Action:      strings.TrimSpace(m[3]),
		Explanation: strings.TrimSpace(m[4]),
	}
	if !validSituations[r.Situation] {
		return Reply{}, fmt.Errorf("%w: situation %q", ErrUnrecognized, r.Situation)
	}
	return r, nil
}

// ExtractDirective maps free-form interpreter text to a directive by
// keyword: any starboard wording wins, then port, then
// stand-on/continue phrasing; anything else is unrecognized and the
// caller keeps the unmodified field sign.
func ExtractDirective(raw string) (Directive, error) {
	text := strings.ToLower(raw)
	switch {
	case strings.Contains(text, "starboard"):
		return Starboard, nil
	case strings.Contains(text, "port"):
		return Port, nil
	case strings.Contains(text, "continue current"):
		return Continue, nil
	case strings.Contains(text, "stand on") || strings.Contains(text, "stand-on"):
		return StandOn, nil
	}
	return Starboard, fmt.Errorf("%w: %q", ErrUnrecognized, truncate(raw, 120))
}

// ParseDirective resolves an interpreter reply to a directive,
// preferring the structured form and falling back to keyword
// extraction.
func ParseDirective(raw string) (Directive, error) {
	if reply, err := ParseReply(raw); err == nil {
		if d, err := ExtractDirective(reply.Action); err == nil {
			return d, nil
		}
	}
	return ExtractDirective(raw)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
