package picks

import (
	"regexp"
	"strings"
)

// TailKind distinguishes a copy from a fade
type TailKind int

const (
	TailNone TailKind = iota
	TailFollow
	TailReverse
)

// TailRef is a pick that points at another player's pick
type TailRef struct {
	Kind   TailKind
	Target string
}

var (
	directiveRe = regexp.MustCompile(`(?i)^\s*(reverse\s+tail|fade|tail)\s+(.+?)\s*$`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]`)
)

// TailIndex maps name variants to player names.
// Variants are the lowercase name, the name without punctuation, first and last name and initials.
// The first player registered under a variant keeps it.
type TailIndex struct {
	variants map[string]string
}

// NewTailIndex builds an index over the given player names
func NewTailIndex(names []string) *TailIndex {
	ix := &TailIndex{variants: make(map[string]string)}
	for _, n := range names {
		ix.add(n)
	}
	// full names always win over another player's short variant
	for _, n := range names {
		ix.variants[strings.ToLower(strings.TrimSpace(n))] = n
	}
	return ix
}

func (ix *TailIndex) add(name string) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return
	}
	lower := strings.ToLower(raw)
	ix.set(lower, name)
	ix.set(nonAlnumRe.ReplaceAllString(lower, ""), name)

	parts := strings.Fields(lower)
	if len(parts) == 0 {
		return
	}
	ix.set(parts[0], name)
	ix.set(parts[len(parts)-1], name)
	var initials strings.Builder
	for _, p := range parts {
		initials.WriteByte(p[0])
	}
	ix.set(initials.String(), name)
}

func (ix *TailIndex) set(variant, name string) {
	if variant == "" {
		return
	}
	if _, ok := ix.variants[variant]; !ok {
		ix.variants[variant] = name
	}
}

// Lookup finds the player a pick text names.
// Tries the whole text, the text without punctuation, then its first token.
func (ix *TailIndex) Lookup(text string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return "", false
	}
	if n, ok := ix.variants[lower]; ok {
		return n, true
	}
	if n, ok := ix.variants[nonAlnumRe.ReplaceAllString(lower, "")]; ok {
		return n, true
	}
	if n, ok := ix.variants[strings.Fields(lower)[0]]; ok {
		return n, true
	}
	return "", false
}

// ParseDirective recognizes "Tail X", "Reverse Tail X" and "Fade X".
// The target is returned as written.
func ParseDirective(text string) (TailRef, bool) {
	m := directiveRe.FindStringSubmatch(StripTags(text))
	if m == nil {
		return TailRef{}, false
	}
	kind := TailFollow
	if !strings.EqualFold(m[1], "tail") {
		kind = TailReverse
	}
	return TailRef{Kind: kind, Target: strings.TrimSpace(m[2])}, true
}

// Detect classifies pick text as a tail reference.
// Explicit directives are checked first; otherwise the text must name a player. self is never a target.
func (ix *TailIndex) Detect(self, text string) (TailRef, bool) {
	if ref, ok := ParseDirective(text); ok {
		if name, found := ix.Lookup(ref.Target); found {
			ref.Target = name
		}
		if strings.EqualFold(ref.Target, self) {
			return TailRef{}, false
		}
		return ref, true
	}

	name, ok := ix.Lookup(StripTags(text))
	if !ok || strings.EqualFold(name, self) {
		return TailRef{}, false
	}
	return TailRef{Kind: TailFollow, Target: name}, true
}

// Resolved renders the reference as written to a Resolved column
func (r TailRef) Resolved() string {
	switch r.Kind {
	case TailReverse:
		return "Reverse Tail " + r.Target
	case TailFollow:
		return "Tail " + r.Target
	default:
		return ""
	}
}
