package renderer

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter holds the recognized keys of a leading YAML block
type frontMatter struct {
	Title    string `yaml:"title"`
	Theme    string `yaml:"theme"`
	Class    string `yaml:"class"`
	Paginate bool   `yaml:"paginate"`
	Style    string `yaml:"style"`
}

func (f frontMatter) globals() globalDirectives {
	return globalDirectives{Theme: f.Theme, Paginate: f.Paginate}
}

// extractFrontmatter splits a leading "---" delimited YAML block from the body.
// An unterminated block is treated as ordinary content; malformed YAML is an error.
func extractFrontmatter(text string) (frontMatter, string, error) {
	var fm frontMatter

	if !strings.HasPrefix(text, "---\n") {
		return fm, text, nil
	}

	lines := strings.Split(text, "\n")
	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return fm, text, nil
	}

	block := strings.Join(lines[1:end], "\n")
	if strings.TrimSpace(block) != "" {
		if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
			return fm, text, fmt.Errorf("parsing front-matter: %w", err)
		}
	}

	return fm, strings.Join(lines[end+1:], "\n"), nil
}
