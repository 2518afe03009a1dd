package eligibility

// AliasTableVersion identifies the shipped skill alias data. Bump it when
// the groups change so downstream consumers can tell evaluations apart.
const AliasTableVersion = "v1"

// aliasTable groups skill spellings that should match each other. Lookup is
// bidirectional: two names are related when either one's group contains the
// other. All entries are lowercase.
type aliasTable map[string][]string

var defaultAliases = aliasTable{
	"python":     {"python", "py"},
	"javascript": {"javascript", "js", "node.js", "nodejs"},
	"java":       {"java"},
	"it":         {"information technology", "it", "computer science", "cs", "cse"},
	"ece":        {"electronics and communication", "ece", "electronics"},
	"ee":         {"electrical engineering", "ee", "electrical"},
	"me":         {"mechanical engineering", "me", "mechanical"},
	"ce":         {"civil engineering", "ce", "civil"},
}

// related reports whether two normalized skill names belong to the same
// alias group, in either direction.
func (t aliasTable) related(a, b string) bool {
	if t.contains(a, b) {
		return true
	}
	return t.contains(b, a)
}

func (t aliasTable) contains(key, name string) bool {
	group, ok := t[key]
	if !ok {
		return false
	}
	for _, entry := range group {
		if entry == name {
			return true
		}
	}
	return false
}
