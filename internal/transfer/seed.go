package transfer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/marcus/codenotes/internal/notes"
)

// snippet templates per language; %s receives generated identifiers or prose.
var snippets = map[notes.Language]string{
	notes.Markdown:   "# %s\n\n%s\n\n- first\n- second\n",
	notes.JavaScript: "function %s(items) {\n\treturn items.filter(Boolean);\n}\n// %s\n",
	notes.TypeScript: "export function %s(n: number): number {\n\treturn n * 2;\n}\n// %s\n",
	notes.Python:     "def %s(values):\n    return sorted(values)\n\n# %s\n",
	notes.Java:       "public class %s {\n\t// %s\n}\n",
	notes.Cpp:        "int %s() {\n\treturn 0; // %s\n}\n",
	notes.C:          "static int %s(void) {\n\treturn 0; /* %s */\n}\n",
	notes.HTML:       "<section id=\"%s\">\n  <p>%s</p>\n</section>\n",
	notes.CSS:        ".%s {\n  color: #333; /* %s */\n}\n",
	notes.JSON:       "{\n  \"name\": \"%s\",\n  \"note\": \"%s\"\n}\n",
	notes.SQL:        "SELECT * FROM %s\nWHERE note = '%s';\n",
	notes.Bash:       "#!/usr/bin/env bash\n%s() {\n  echo \"%s\"\n}\n",
	notes.Plaintext:  "%s\n\n%s\n",
}

// Seed creates n demo notes with generated titles and content. The same seed
// yields the same notes.
func Seed(s *notes.Store, n int, seed int64) (int, error) {
	f := faker.NewWithSeed(rand.NewSource(seed))
	langs := notes.Languages()

	for i := 0; i < n; i++ {
		lang := langs[f.IntBetween(0, len(langs)-1)]
		title := strings.TrimSuffix(f.Lorem().Sentence(f.IntBetween(2, 5)), ".")
		ident := identifier(f.Lorem().Word(), f.Lorem().Word())
		content := fmt.Sprintf(snippets[lang], ident, f.Lorem().Sentence(6))

		if _, err := s.Create(); err != nil {
			return i, err
		}
		if err := s.Update(notes.Patch{Title: &title, Content: &content, Language: &lang}); err != nil {
			return i, err
		}
	}
	return n, nil
}

func identifier(a, b string) string {
	if b == "" {
		return strings.ToLower(a)
	}
	return strings.ToLower(a) + strings.ToUpper(b[:1]) + strings.ToLower(b[1:])
}
