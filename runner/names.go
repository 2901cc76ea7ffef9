package runner

import (
	"reflect"
	"runtime"
	"strings"
	"unicode"
)

// NameFromTestName derives a scenario name from a Go test name. The subtest
// path and the Test prefix are stripped before the identifier transform, so
// "TestShould_collect_scenario_result" and a "Should_collect_scenario_result"
// subtest both become "Should collect scenario result".
func NameFromTestName(testName string) string {
	name := testName
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if rest, ok := strings.CutPrefix(name, "Test"); ok && rest != "" {
		r := rune(rest[0])
		if unicode.IsUpper(r) || r == '_' || unicode.IsDigit(r) {
			name = rest
		}
	}
	return NameFromIdentifier(name)
}

// NameFromIdentifier converts a Go identifier into a readable name:
// underscores become spaces and camel-case boundaries split into separate
// words. Words after the first are lowercased unless they are acronyms.
func NameFromIdentifier(id string) string {
	var words []string
	for _, chunk := range strings.Split(id, "_") {
		words = append(words, splitCamel(chunk)...)
	}
	if len(words) == 0 {
		return ""
	}
	for i := 1; i < len(words); i++ {
		if !isAcronym(words[i]) {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}

// splitCamel splits a single identifier chunk at camel-case boundaries.
// Acronym runs stay together: "HTTPServer" becomes ["HTTP", "Server"].
func splitCamel(chunk string) []string {
	if chunk == "" {
		return nil
	}
	runes := []rune(chunk)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := false
		switch {
		case unicode.IsUpper(cur) && !unicode.IsUpper(prev) && !unicode.IsDigit(prev):
			boundary = true
		case unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
			boundary = true
		}
		if boundary {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))
	return words
}

func isAcronym(word string) bool {
	if len(word) < 2 {
		return false
	}
	for _, r := range word {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// nameOfFunc resolves the declared name of a step function through the
// runtime. Anonymous functions yield an empty name and fall back to a
// positional step name.
func nameOfFunc(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	name := rf.Name()
	name = strings.TrimSuffix(name, "-fm")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" || isAnonymousFunc(name) {
		return ""
	}
	return NameFromIdentifier(name)
}

func isAnonymousFunc(name string) bool {
	rest, ok := strings.CutPrefix(name, "func")
	if !ok || rest == "" {
		return false
	}
	for _, r := range rest {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// callerFuncName returns the name of the function the given number of frames
// above the caller, for deriving scenario names from the invoking test.
func callerFuncName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	rf := runtime.FuncForPC(pc)
	if rf == nil {
		return ""
	}
	name := rf.Name()
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
