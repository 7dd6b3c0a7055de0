package notes

import "strings"

// Language tags a note's body for syntax highlighting.
// The wire values are stable and shared with exported files.
type Language string

const (
	Plaintext  Language = "plaintext"
	Markdown   Language = "markdown"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Python     Language = "python"
	Java       Language = "java"
	Cpp        Language = "cpp"
	C          Language = "c"
	HTML       Language = "html"
	CSS        Language = "css"
	JSON       Language = "json"
	SQL        Language = "sql"
	Bash       Language = "bash"
)

// languages is the picker order.
var languages = []Language{
	Plaintext, Markdown, JavaScript, TypeScript, Python, Java,
	Cpp, C, HTML, CSS, JSON, SQL, Bash,
}

var labels = map[Language]string{
	Plaintext:  "Plain Text",
	Markdown:   "Markdown",
	JavaScript: "JavaScript",
	TypeScript: "TypeScript",
	Python:     "Python",
	Java:       "Java",
	Cpp:        "C++",
	C:          "C",
	HTML:       "HTML",
	CSS:        "CSS",
	JSON:       "JSON",
	SQL:        "SQL",
	Bash:       "Bash",
}

// Languages returns every supported language in picker order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Valid reports whether l is one of the supported tags.
func (l Language) Valid() bool {
	_, ok := labels[l]
	return ok
}

// Label returns the human-readable name. Unknown tags are shown verbatim.
func (l Language) Label() string {
	if s, ok := labels[l]; ok {
		return s
	}
	if l == "" {
		return labels[Plaintext]
	}
	return string(l)
}

// Highlighted reports whether the language gets a highlight overlay.
func (l Language) Highlighted() bool {
	return l.Valid() && l != Plaintext
}

// Next returns the following language in picker order, wrapping around.
// Unknown tags continue from the start of the list.
func (l Language) Next() Language {
	for i, lang := range languages {
		if lang == l {
			return languages[(i+1)%len(languages)]
		}
	}
	return languages[0]
}

// ParseLanguage resolves a tag or label case-insensitively.
// Unknown input yields Plaintext and false.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Plaintext, false
	}
	for _, lang := range languages {
		if string(lang) == s || strings.ToLower(labels[lang]) == s {
			return lang, true
		}
	}
	switch s {
	case "text", "plain", "txt":
		return Plaintext, true
	case "md":
		return Markdown, true
	case "js":
		return JavaScript, true
	case "ts":
		return TypeScript, true
	case "py":
		return Python, true
	case "c++", "cxx":
		return Cpp, true
	case "sh", "shell":
		return Bash, true
	}
	return Plaintext, false
}
