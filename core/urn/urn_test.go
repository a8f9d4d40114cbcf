package urn

import (
	"errors"
	"testing"

	apperrors "github.com/scaife-viewer/ctsresolver/core/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected *URN
		wantErr  error
	}{
		// Textgroup only
		{
			input: "urn:cts:greekLit:tlg0012",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
			},
		},
		// Work level
		{
			input: "urn:cts:greekLit:tlg0012.tlg001",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
			},
		},
		// Version level
		{
			input: "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
				Version:   "perseus-grc2",
			},
		},
		// Exemplar level
		{
			input: "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2.tokens",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
				Version:   "perseus-grc2",
				Exemplar:  "tokens",
			},
		},
		// Passage
		{
			input: "urn:cts:greekLit:tlg0012.tlg001:1.10",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
				Passage:   &Passage{Start: Ref{Parts: []string{"1", "10"}}},
			},
		},
		// Passage range
		{
			input: "urn:cts:greekLit:tlg0012.tlg001:1.1-1.10",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
				Passage: &Passage{
					Start: Ref{Parts: []string{"1", "1"}},
					End:   &Ref{Parts: []string{"1", "10"}},
				},
			},
		},
		// Subreference with index
		{
			input: "urn:cts:greekLit:tlg0012.tlg001:1.1@μῆνιν[1]",
			expected: &URN{
				Nid:       "cts",
				Namespace: "greekLit",
				TextGroup: "tlg0012",
				Work:      "tlg001",
				Passage: &Passage{
					Start: Ref{Parts: []string{"1", "1"}, Subref: "μῆνιν", SubrefIndex: 1},
				},
			},
		},
		// Non-numeric citation part
		{
			input: "urn:cts:latinLit:phi0474.phi013.perseus-lat2:pr.1",
			expected: &URN{
				Nid:       "cts",
				Namespace: "latinLit",
				TextGroup: "phi0474",
				Work:      "phi013",
				Version:   "perseus-lat2",
				Passage:   &Passage{Start: Ref{Parts: []string{"pr", "1"}}},
			},
		},
		// Trailing colon (work-level, empty passage)
		{
			input: "urn:cts:greekLit:tlg0012.tlg001:",
			expected: &URN{
				Nid:           "cts",
				Namespace:     "greekLit",
				TextGroup:     "tlg0012",
				Work:          "tlg001",
				TrailingColon: true,
			},
		},
		// Error cases
		{input: "", wantErr: apperrors.ErrEmptyURN},
		{input: "   ", wantErr: apperrors.ErrEmptyURN},
		{input: "not-a-urn", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cts:greekLit", wantErr: apperrors.ErrMalformedURN},
		{input: "http:cts:greekLit:tlg0012", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cite:greekLit:tlg0012", wantErr: apperrors.ErrMalformedURN},
		{input: "URN:CTS:greekLit:tlg0012", wantErr: apperrors.ErrMalformedURN},
		// Consecutive colons
		{input: "urn:cts::tlg0012.tlg001", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cts:greekLit::1.1", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cts:greekLit:tlg0012.tlg001:1.1:extra", wantErr: apperrors.ErrMalformedURN},
		// Broken work components
		{input: "urn:cts:greekLit:tlg0012..tlg001", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cts:greekLit:.tlg001", wantErr: apperrors.ErrMalformedURN},
		// Broken passage references
		{input: "urn:cts:greekLit:tlg0012.tlg001:1..2", wantErr: apperrors.ErrMalformedURN},
		{input: "urn:cts:greekLit:tlg0012.tlg001:1.1-", wantErr: apperrors.ErrMalformedURN},
	}

	for _, tt := range tests {
		u, err := Parse(tt.input)
		if tt.wantErr != nil {
			if err == nil {
				t.Errorf("Parse(%q) expected error", tt.input)
				continue
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			continue
		}

		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}

		if u.Namespace != tt.expected.Namespace {
			t.Errorf("Parse(%q).Namespace = %q, want %q", tt.input, u.Namespace, tt.expected.Namespace)
		}
		if u.TextGroup != tt.expected.TextGroup {
			t.Errorf("Parse(%q).TextGroup = %q, want %q", tt.input, u.TextGroup, tt.expected.TextGroup)
		}
		if u.Work != tt.expected.Work {
			t.Errorf("Parse(%q).Work = %q, want %q", tt.input, u.Work, tt.expected.Work)
		}
		if u.Version != tt.expected.Version {
			t.Errorf("Parse(%q).Version = %q, want %q", tt.input, u.Version, tt.expected.Version)
		}
		if u.Exemplar != tt.expected.Exemplar {
			t.Errorf("Parse(%q).Exemplar = %q, want %q", tt.input, u.Exemplar, tt.expected.Exemplar)
		}
		if u.TrailingColon != tt.expected.TrailingColon {
			t.Errorf("Parse(%q).TrailingColon = %v, want %v", tt.input, u.TrailingColon, tt.expected.TrailingColon)
		}
		comparePassage(t, tt.input, u.Passage, tt.expected.Passage)
	}
}

func comparePassage(t *testing.T, input string, got, want *Passage) {
	t.Helper()

	if (got == nil) != (want == nil) {
		t.Errorf("Parse(%q).Passage = %v, want %v", input, got, want)
		return
	}
	if got == nil {
		return
	}

	compareRef(t, input, "Start", &got.Start, &want.Start)
	if (got.End == nil) != (want.End == nil) {
		t.Errorf("Parse(%q).Passage.End = %v, want %v", input, got.End, want.End)
		return
	}
	if got.End != nil {
		compareRef(t, input, "End", got.End, want.End)
	}
}

func compareRef(t *testing.T, input, label string, got, want *Ref) {
	t.Helper()

	if len(got.Parts) != len(want.Parts) {
		t.Errorf("Parse(%q).Passage.%s.Parts = %v, want %v", input, label, got.Parts, want.Parts)
		return
	}
	for i := range got.Parts {
		if got.Parts[i] != want.Parts[i] {
			t.Errorf("Parse(%q).Passage.%s.Parts[%d] = %q, want %q", input, label, i, got.Parts[i], want.Parts[i])
		}
	}
	if got.Subref != want.Subref {
		t.Errorf("Parse(%q).Passage.%s.Subref = %q, want %q", input, label, got.Subref, want.Subref)
	}
	if got.SubrefIndex != want.SubrefIndex {
		t.Errorf("Parse(%q).Passage.%s.SubrefIndex = %d, want %d", input, label, got.SubrefIndex, want.SubrefIndex)
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"urn:cts:greekLit:tlg0012",
		"urn:cts:greekLit:tlg0012.tlg001",
		"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2",
		"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2.tokens",
		"urn:cts:greekLit:tlg0012.tlg001:1.1",
		"urn:cts:greekLit:tlg0012.tlg001:1.1-1.10",
		"urn:cts:greekLit:tlg0012.tlg001:1.1@μῆνιν[1]",
		"urn:cts:greekLit:tlg0012.tlg001:",
		"urn:cts:latinLit:phi0474.phi013.perseus-lat2:pr.1",
	}

	for _, input := range inputs {
		u, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", input, err)
			continue
		}
		if got := u.String(); got != input {
			t.Errorf("Parse(%q).String() = %q", input, got)
		}
	}
}

func TestCaseSensitivityPreserved(t *testing.T) {
	u, err := Parse("urn:cts:greekLit:tlg0012.tlg001")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if u.Namespace != "greekLit" {
		t.Errorf("Namespace = %q, case must be preserved", u.Namespace)
	}
}

func TestDepthAndKind(t *testing.T) {
	tests := []struct {
		input string
		depth int
		kind  Kind
	}{
		{"urn:cts:greekLit:tlg0012", 2, KindTextGroup},
		{"urn:cts:greekLit:tlg0012.tlg001", 3, KindWork},
		{"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2", 4, KindVersion},
		{"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2.tokens", 5, KindExemplar},
		{"urn:cts:greekLit:tlg0012.tlg001:1.1", 3, KindWork},
	}

	for _, tt := range tests {
		u, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.input, err)
			continue
		}
		if got := u.Depth(); got != tt.depth {
			t.Errorf("Parse(%q).Depth() = %d, want %d", tt.input, got, tt.depth)
		}
		if got := u.Kind(); got != tt.kind {
			t.Errorf("Parse(%q).Kind() = %q, want %q", tt.input, got, tt.kind)
		}
	}
}

func TestUpTo(t *testing.T) {
	u, err := Parse("urn:cts:greekLit:tlg0012.tlg001.perseus-grc2:1.1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindTextGroup, "urn:cts:greekLit:tlg0012"},
		{KindWork, "urn:cts:greekLit:tlg0012.tlg001"},
		{KindVersion, "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2"},
	}

	for _, tt := range tests {
		if got := u.UpTo(tt.kind).String(); got != tt.expected {
			t.Errorf("UpTo(%q) = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}

func TestExtractVersionAndRef(t *testing.T) {
	tests := []struct {
		input   string
		version string
		ref     string
	}{
		{
			input:   "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2:1.1",
			version: "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2",
			ref:     "1.1",
		},
		{
			input:   "urn:cts:greekLit:tlg0012.tlg001:2.1-2.10",
			version: "urn:cts:greekLit:tlg0012.tlg001",
			ref:     "2.1-2.10",
		},
		{
			input:   "urn:cts:greekLit:tlg0012.tlg001",
			version: "urn:cts:greekLit:tlg0012.tlg001",
			ref:     "",
		},
	}

	for _, tt := range tests {
		version, ref, err := ExtractVersionAndRef(tt.input)
		if err != nil {
			t.Errorf("ExtractVersionAndRef(%q) error: %v", tt.input, err)
			continue
		}
		if version != tt.version {
			t.Errorf("ExtractVersionAndRef(%q) version = %q, want %q", tt.input, version, tt.version)
		}
		if ref != tt.ref {
			t.Errorf("ExtractVersionAndRef(%q) ref = %q, want %q", tt.input, ref, tt.ref)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		container string
		target    string
		contains  bool
	}{
		// Work contains its passages
		{"urn:cts:greekLit:tlg0012.tlg001", "urn:cts:greekLit:tlg0012.tlg001:1.1", true},
		// Different work
		{"urn:cts:greekLit:tlg0012.tlg001", "urn:cts:greekLit:tlg0012.tlg002:1.1", false},
		// Book contains its lines
		{"urn:cts:greekLit:tlg0012.tlg001:1", "urn:cts:greekLit:tlg0012.tlg001:1.5", true},
		{"urn:cts:greekLit:tlg0012.tlg001:1", "urn:cts:greekLit:tlg0012.tlg001:2.5", false},
		// Range containment
		{"urn:cts:greekLit:tlg0012.tlg001:1.1-1.10", "urn:cts:greekLit:tlg0012.tlg001:1.5", true},
		{"urn:cts:greekLit:tlg0012.tlg001:1.1-1.10", "urn:cts:greekLit:tlg0012.tlg001:1.15", false},
		// Passage does not contain the whole work
		{"urn:cts:greekLit:tlg0012.tlg001:1.1", "urn:cts:greekLit:tlg0012.tlg001", false},
		// Version-specific container
		{"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2", "urn:cts:greekLit:tlg0012.tlg001.perseus-grc2:1.1", true},
		{"urn:cts:greekLit:tlg0012.tlg001.perseus-grc2", "urn:cts:greekLit:tlg0012.tlg001.perseus-eng3:1.1", false},
	}

	for _, tt := range tests {
		container, err := Parse(tt.container)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.container, err)
		}
		target, err := Parse(tt.target)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.target, err)
		}
		if got := container.Contains(target); got != tt.contains {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.container, tt.target, got, tt.contains)
		}
	}
}
