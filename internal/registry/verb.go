package registry

import "strings"

// Verb generates verb-noun command names from function-style names, e.g.
// verb "get" turns "get_user" into "get-user".
type Verb struct {
	// Verb is the action word, e.g. "get", "set", "list".
	Verb string

	// Delimiter joins verb and noun. Defaults to "-".
	Delimiter string

	// KeepOriginal also registers the untransformed name.
	KeepOriginal bool

	// StripVerb removes the verb (and separating underscores) from the
	// name before prefixing, so "get_user" doesn't become "get-get_user".
	StripVerb bool
}

// MatchesFor returns the command names for a declared signature name.
func (v *Verb) MatchesFor(name string) []string {
	delim := v.Delimiter
	if delim == "" {
		delim = "-"
	}

	noun := name
	if v.StripVerb {
		noun = strings.Replace(noun, v.Verb, "", 1)
		noun = strings.TrimLeft(noun, "_")
	}

	matches := []string{v.Verb + delim + noun}
	if v.KeepOriginal {
		matches = append(matches, name)
	}
	return matches
}
