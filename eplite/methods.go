package eplite

import "sort"

// Method describes one remote procedure of API version 1 and the verb the
// service helpers use for it.
type Method struct {
	Name string
	Verb Verb
}

// Methods lists the procedures wrapped by the service helpers. Reads use
// GET and writes use POST.
var Methods = []Method{
	{"createGroup", POST},
	{"createGroupIfNotExistsFor", POST},
	{"deleteGroup", POST},
	{"listPads", GET},
	{"createGroupPad", POST},
	{"createAuthor", POST},
	{"createAuthorIfNotExistsFor", POST},
	{"listPadsOfAuthor", GET},
	{"listAuthorsOfPad", GET},
	{"createSession", POST},
	{"deleteSession", POST},
	{"getSessionInfo", GET},
	{"listSessionsOfGroup", GET},
	{"listSessionsOfAuthor", GET},
	{"getText", GET},
	{"setText", POST},
	{"getHTML", GET},
	{"setHTML", POST},
	{"createPad", POST},
	{"getRevisionsCount", GET},
	{"deletePad", POST},
	{"getReadOnlyID", GET},
	{"setPublicStatus", POST},
	{"getPublicStatus", GET},
	{"setPassword", POST},
	{"isPasswordProtected", GET},
}

// LookupMethod returns the entry for name.
func LookupMethod(name string) (Method, bool) {
	for _, m := range Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// MethodNames returns the known procedure names, sorted.
func MethodNames() []string {
	names := make([]string, len(Methods))
	for i, m := range Methods {
		names[i] = m.Name
	}
	sort.Strings(names)
	return names
}
