package urn

// NormalizationPolicy controls how URNs are reduced to canonical form.
type NormalizationPolicy struct {
	// AllowTrailingColon retains a bare trailing colon on work-level URNs.
	// When false (the default), the trailing colon is stripped to match the
	// canonical form used by external resolvers.
	AllowTrailingColon bool
}

// DefaultPolicy returns the default normalization policy (trailing colon
// stripped).
func DefaultPolicy() NormalizationPolicy {
	return NormalizationPolicy{AllowTrailingColon: false}
}

// Normalize returns the canonical form of the URN under the given policy.
// The input is never mutated; normalization is idempotent.
func Normalize(u *URN, policy NormalizationPolicy) *URN {
	if policy.AllowTrailingColon || !u.TrailingColon {
		return u
	}

	out := *u
	out.TrailingColon = false
	return &out
}

// NormalizeString parses and normalizes a raw URN string, returning its
// canonical string form.
func NormalizeString(raw string, policy NormalizationPolicy) (string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return Normalize(u, policy).String(), nil
}
