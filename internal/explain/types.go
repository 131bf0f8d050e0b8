package explain

import (
	"fmt"
	"strings"
)

// Explanation is the four-part teaching text for one concept.
type Explanation struct {
	Definition string `json:"definition"`
	Analogy    string `json:"analogy"`
	KeyPoint   string `json:"keyPoint"`
	Example    string `json:"example"`
}

// Validate reports every empty field.
func (e *Explanation) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"definition", e.Definition},
		{"analogy", e.Analogy},
		{"keyPoint", e.KeyPoint},
		{"example", e.Example},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("explanation missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Narration is the text read aloud for the concept called name. The
// example is not narrated.
func (e *Explanation) Narration(name string) string {
	return fmt.Sprintf("关于%s。%s。举个例子：%s。记住：%s", name, e.Definition, e.Analogy, e.KeyPoint)
}
