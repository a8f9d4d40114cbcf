package urn

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
)

// Kind identifies a level of the CTS URN hierarchy.
type Kind string

const (
	// KindNamespace is the CTS namespace level (e.g., "greekLit").
	KindNamespace Kind = "namespace"
	// KindTextGroup is the textgroup level (e.g., "tlg0012").
	KindTextGroup Kind = "textgroup"
	// KindWork is the work level (e.g., "tlg001").
	KindWork Kind = "work"
	// KindVersion is the version (edition/translation) level.
	KindVersion Kind = "version"
	// KindExemplar is the exemplar level.
	KindExemplar Kind = "exemplar"
)

// Depths maps each hierarchy kind to its resolved depth.
var Depths = map[Kind]int{
	KindNamespace: 1,
	KindTextGroup: 2,
	KindWork:      3,
	KindVersion:   4,
	KindExemplar:  5,
}

// URN represents a parsed CTS URN.
type URN struct {
	// Nid is the URN namespace identifier, always "cts".
	Nid string `json:"nid"`

	// Namespace is the CTS namespace (e.g., "greekLit").
	Namespace string `json:"namespace"`

	// TextGroup is the textgroup identifier (e.g., "tlg0012").
	TextGroup string `json:"textgroup"`

	// Work is the work identifier (e.g., "tlg001").
	Work string `json:"work,omitempty"`

	// Version is the version identifier (e.g., "perseus-grc2").
	Version string `json:"version,omitempty"`

	// Exemplar is the exemplar identifier.
	Exemplar string `json:"exemplar,omitempty"`

	// Passage is the passage reference, nil for work-level URNs.
	Passage *Passage `json:"passage,omitempty"`

	// TrailingColon records whether the source form ended in a bare colon
	// (a work-level reference with an empty passage component).
	TrailingColon bool `json:"trailing_colon,omitempty"`
}

// Passage represents a passage reference, optionally a range.
type Passage struct {
	// Start is the first (or only) citation reference.
	Start Ref `json:"start"`

	// End is the end of a range reference, nil for single references.
	End *Ref `json:"end,omitempty"`
}

// Ref is a single citation reference within a passage.
type Ref struct {
	// Parts are the dot-separated citation parts (e.g., ["1", "10"]).
	Parts []string `json:"parts"`

	// Subref is the token subreference (e.g., "μῆνιν" in "1.1@μῆνιν[1]").
	Subref string `json:"subref,omitempty"`

	// SubrefIndex is the 1-based occurrence index of the subreference token.
	SubrefIndex int `json:"subref_index,omitempty"`
}

// workGrammar is the participle grammar for the work component:
// "tlg0012", "tlg0012.tlg001", "tlg0012.tlg001.perseus-grc2.ex1"
//
//nolint:govet // participle grammar tags are not standard struct tags
type workGrammar struct {
	TextGroup string `parser:"@Ident"`
	Work      string `parser:"( '.' @Ident"`
	Version   string `parser:"  ( '.' @Ident"`
	Exemplar  string `parser:"    ( '.' @Ident )? )? )?"`
}

// workLexer defines the lexer for work components.
var workLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z0-9_+\-]+`},
	{Name: "Punct", Pattern: `[.]`},
})

// workParser is the participle parser for work components.
var workParser = participle.MustBuild[workGrammar](
	participle.Lexer(workLexer),
)

// passageGrammar is the participle grammar for passage references:
// "1", "1.1", "1.1-1.10", "1.1@μῆνιν[1]", "pr.2"
//
//nolint:govet // participle grammar tags are not standard struct tags
type passageGrammar struct {
	Start refGrammar  `parser:"@@"`
	End   *refGrammar `parser:"( '-' @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type refGrammar struct {
	First  string         `parser:"@Part"`
	Rest   []string       `parser:"( '.' @Part )*"`
	Subref *subrefGrammar `parser:"( '@' @@ )?"`
}

//nolint:govet // participle grammar tags are not standard struct tags
type subrefGrammar struct {
	Token string  `parser:"@Part"`
	Index *string `parser:"( '[' @Part ']' )?"`
}

// passageLexer defines the lexer for passage references. Citation parts may
// contain any letters and digits (subreference tokens are often Greek).
var passageLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Part", Pattern: `[\p{L}\p{M}\p{N}_]+`},
	{Name: "Punct", Pattern: `[.@\[\]\-]`},
})

// passageParser is the participle parser for passage references.
var passageParser = participle.MustBuild[passageGrammar](
	participle.Lexer(passageLexer),
)

// Parse parses a raw CTS URN string.
func Parse(raw string) (*URN, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, apperrors.ErrEmptyURN
	}

	fields := strings.Split(s, ":")
	if len(fields) < 4 {
		return nil, apperrors.NewMalformedURN(raw, "expected urn:cts:<namespace>:<work>[:<passage>]")
	}
	if len(fields) > 5 {
		return nil, apperrors.NewMalformedURN(raw, "too many colon-delimited components")
	}
	if fields[0] != "urn" {
		return nil, apperrors.NewMalformedURN(raw, "scheme must be \"urn\"")
	}
	if fields[1] != "cts" {
		return nil, apperrors.NewMalformedURN(raw, "namespace identifier must be \"cts\"")
	}
	if fields[2] == "" {
		return nil, apperrors.NewMalformedURN(raw, "empty namespace component")
	}
	if fields[3] == "" {
		return nil, apperrors.NewMalformedURN(raw, "empty work component")
	}

	parsed, err := workParser.ParseString("", fields[3])
	if err != nil {
		return nil, apperrors.NewMalformedURN(raw, "invalid work component: "+err.Error())
	}

	u := &URN{
		Nid:       "cts",
		Namespace: fields[2],
		TextGroup: parsed.TextGroup,
		Work:      parsed.Work,
		Version:   parsed.Version,
		Exemplar:  parsed.Exemplar,
	}

	if len(fields) == 5 {
		if fields[4] == "" {
			// A bare trailing colon denotes a work-level reference.
			u.TrailingColon = true
			return u, nil
		}
		passage, err := parsePassage(fields[4])
		if err != nil {
			return nil, apperrors.NewMalformedURN(raw, "invalid passage reference: "+err.Error())
		}
		u.Passage = passage
	}

	return u, nil
}

// parsePassage parses the passage component of a URN.
func parsePassage(s string) (*Passage, error) {
	parsed, err := passageParser.ParseString("", s)
	if err != nil {
		return nil, err
	}

	start, err := buildRef(&parsed.Start)
	if err != nil {
		return nil, err
	}

	p := &Passage{Start: *start}
	if parsed.End != nil {
		end, err := buildRef(parsed.End)
		if err != nil {
			return nil, err
		}
		p.End = end
	}
	return p, nil
}

// buildRef converts a parsed refGrammar into a Ref.
func buildRef(g *refGrammar) (*Ref, error) {
	r := &Ref{Parts: append([]string{g.First}, g.Rest...)}
	if g.Subref != nil {
		r.Subref = g.Subref.Token
		if g.Subref.Index != nil {
			idx, err := strconv.Atoi(*g.Subref.Index)
			if err != nil || idx < 1 {
				return nil, apperrors.NewParse("subreference", "", "index must be a positive integer")
			}
			r.SubrefIndex = idx
		}
	}
	return r, nil
}

// String returns the canonical source form of the URN.
func (u *URN) String() string {
	var sb strings.Builder
	sb.WriteString("urn:")
	sb.WriteString(u.Nid)
	sb.WriteString(":")
	sb.WriteString(u.Namespace)
	sb.WriteString(":")
	sb.WriteString(u.TextGroup)

	if u.Work != "" {
		sb.WriteString(".")
		sb.WriteString(u.Work)
		if u.Version != "" {
			sb.WriteString(".")
			sb.WriteString(u.Version)
			if u.Exemplar != "" {
				sb.WriteString(".")
				sb.WriteString(u.Exemplar)
			}
		}
	}

	if u.Passage != nil {
		sb.WriteString(":")
		sb.WriteString(u.Passage.String())
	} else if u.TrailingColon {
		sb.WriteString(":")
	}

	return sb.String()
}

// String returns the source form of the passage reference.
func (p *Passage) String() string {
	s := p.Start.String()
	if p.End != nil {
		s += "-" + p.End.String()
	}
	return s
}

// String returns the source form of a citation reference.
func (r *Ref) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(r.Parts, "."))
	if r.Subref != "" {
		sb.WriteString("@")
		sb.WriteString(r.Subref)
		if r.SubrefIndex > 0 {
			sb.WriteString("[")
			sb.WriteString(strconv.Itoa(r.SubrefIndex))
			sb.WriteString("]")
		}
	}
	return sb.String()
}

// Depth returns the resolved hierarchy depth of the URN.
func (u *URN) Depth() int {
	switch {
	case u.Exemplar != "":
		return Depths[KindExemplar]
	case u.Version != "":
		return Depths[KindVersion]
	case u.Work != "":
		return Depths[KindWork]
	default:
		return Depths[KindTextGroup]
	}
}

// Kind returns the hierarchy kind of the work component.
func (u *URN) Kind() Kind {
	switch {
	case u.Exemplar != "":
		return KindExemplar
	case u.Version != "":
		return KindVersion
	case u.Work != "":
		return KindWork
	default:
		return KindTextGroup
	}
}

// IsPassage reports whether the URN addresses a passage.
func (u *URN) IsPassage() bool {
	return u.Passage != nil
}

// IsRange reports whether the URN addresses a passage range.
func (u *URN) IsRange() bool {
	return u.Passage != nil && u.Passage.End != nil
}

// UpTo returns a copy of the URN truncated to the given hierarchy kind.
// The passage reference is always dropped.
func (u *URN) UpTo(kind Kind) *URN {
	out := &URN{
		Nid:       u.Nid,
		Namespace: u.Namespace,
		TextGroup: u.TextGroup,
	}
	switch kind {
	case KindExemplar:
		out.Work, out.Version, out.Exemplar = u.Work, u.Version, u.Exemplar
	case KindVersion:
		out.Work, out.Version = u.Work, u.Version
	case KindWork:
		out.Work = u.Work
	}
	return out
}

// VersionURN returns the URN truncated to the version level (or work level
// when no version is present), with the passage reference dropped.
func (u *URN) VersionURN() *URN {
	if u.Version != "" {
		return u.UpTo(KindVersion)
	}
	return u.UpTo(KindWork)
}

// ExtractVersionAndRef splits a raw passage URN into its version-level URN
// string and the passage reference string. The reference is empty for
// work-level URNs.
func ExtractVersionAndRef(raw string) (string, string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", "", err
	}
	ref := ""
	if u.Passage != nil {
		ref = u.Passage.String()
	}
	return u.VersionURN().String(), ref, nil
}

// Contains reports whether the URN's scope includes the other URN.
// A work-level URN contains all of its versions and passages; a passage
// URN contains another when the citation parts prefix-match or fall within
// its range.
func (u *URN) Contains(other *URN) bool {
	if u.Namespace != other.Namespace || u.TextGroup != other.TextGroup {
		return false
	}
	if u.Work != "" && u.Work != other.Work {
		return false
	}
	if u.Version != "" && u.Version != other.Version {
		return false
	}
	if u.Exemplar != "" && u.Exemplar != other.Exemplar {
		return false
	}

	// No passage on the container: contains the whole work.
	if u.Passage == nil {
		return true
	}
	if other.Passage == nil {
		return false
	}

	if u.Passage.End != nil {
		return refCompare(&u.Passage.Start, &other.Passage.Start) <= 0 &&
			refCompare(u.Passage.End, &other.Passage.Start) >= 0
	}
	return refPrefixMatch(&u.Passage.Start, &other.Passage.Start)
}

// refPrefixMatch reports whether container's citation parts are a prefix of
// the target's (e.g., "1" contains "1.5").
func refPrefixMatch(container, target *Ref) bool {
	if len(container.Parts) > len(target.Parts) {
		return false
	}
	for i, p := range container.Parts {
		if target.Parts[i] != p {
			return false
		}
	}
	return true
}

// refCompare orders two citation references. Numeric parts compare
// numerically, otherwise lexically; a shorter reference that prefixes a
// longer one sorts first.
func refCompare(a, b *Ref) int {
	n := len(a.Parts)
	if len(b.Parts) < n {
		n = len(b.Parts)
	}
	for i := 0; i < n; i++ {
		ai, aerr := strconv.Atoi(a.Parts[i])
		bi, berr := strconv.Atoi(b.Parts[i])
		if aerr == nil && berr == nil {
			if ai != bi {
				if ai < bi {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(a.Parts[i], b.Parts[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a.Parts) < len(b.Parts):
		return -1
	case len(a.Parts) > len(b.Parts):
		return 1
	default:
		return 0
	}
}
