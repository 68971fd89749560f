// internal/glossary/glossary.go
package glossary

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale - локаль, на которую откатываемся при отсутствии перевода
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type Entry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type localeFile struct {
	Locale   string  `yaml:"locale"`
	Keywords []Entry `yaml:"keywords"`
}

// Glossary - справочник описаний ключевых слов по локалям. Только для отображения
type Glossary struct {
	base    language.Tag
	tags    []language.Tag
	matcher language.Matcher
	entries map[language.Tag]map[string]Entry
	order   map[language.Tag][]string
}

// LoadEmbedded загружает встроенные файлы локалей
func LoadEmbedded() (*Glossary, error) {
	return Load(embeddedFS)
}

// Load читает locales/*.yaml из fsys
func Load(fsys fs.FS) (*Glossary, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob glossary locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no glossary locales found")
	}
	sort.Strings(paths)

	g := &Glossary{
		base:    language.Make(BaseLocale),
		entries: map[language.Tag]map[string]Entry{},
		order:   map[language.Tag][]string{},
	}

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read glossary %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse glossary %s: %w", path, err)
		}
		if err := g.add(path, file); err != nil {
			return nil, err
		}
	}

	if _, ok := g.entries[g.base]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in glossary", BaseLocale)
	}

	// Базовая локаль первой: matcher использует её как значение по умолчанию
	g.tags = append(g.tags, g.base)
	for tag := range g.entries {
		if tag != g.base {
			g.tags = append(g.tags, tag)
		}
	}
	rest := g.tags[1:]
	sort.Slice(rest, func(i, j int) bool {
		return rest[i].String() < rest[j].String()
	})
	g.matcher = language.NewMatcher(g.tags)

	return g, nil
}

func (g *Glossary) add(path string, file localeFile) error {
	tag, err := language.Parse(strings.TrimSpace(file.Locale))
	if err != nil {
		return fmt.Errorf("glossary %s: parse locale %q: %w", path, file.Locale, err)
	}
	if _, exists := g.entries[tag]; exists {
		return fmt.Errorf("glossary %s: locale %s already defined", path, tag)
	}

	entries := make(map[string]Entry, len(file.Keywords))
	order := make([]string, 0, len(file.Keywords))
	for _, e := range file.Keywords {
		key := normalizeKey(e.Name)
		if key == "" {
			return fmt.Errorf("glossary %s: keyword name cannot be blank", path)
		}
		if _, exists := entries[key]; exists {
			return fmt.Errorf("glossary %s: duplicate keyword %q", path, e.Name)
		}
		entries[key] = e
		order = append(order, key)
	}
	g.entries[tag] = entries
	g.order[tag] = order
	return nil
}

// Supported - доступные локали, базовая первой
func (g *Glossary) Supported() []language.Tag {
	out := make([]language.Tag, len(g.tags))
	copy(out, g.tags)
	return out
}

// Base - базовая локаль
func (g *Glossary) Base() language.Tag {
	return g.base
}

// Match выбирает лучшую поддерживаемую локаль для значения вида "pl-PL,pl;q=0.9,en;q=0.8"
func (g *Glossary) Match(accept string) language.Tag {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return g.base
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return g.base
	}
	_, idx, conf := g.matcher.Match(tags...)
	if conf == language.No {
		return g.base
	}
	return g.tags[idx]
}

// Lookup ищет описание в локали tag, затем в базовой. Параметризованные ключевые слова
// вида "Join (Trabor Slepmund)" находятся по шаблону "Join (X)"
func (g *Glossary) Lookup(name string, tag language.Tag) (Entry, bool) {
	tag = g.resolve(tag)
	for _, key := range candidateKeys(name) {
		if e, ok := g.entries[tag][key]; ok {
			return e, true
		}
		if e, ok := g.entries[g.base][key]; ok {
			return e, true
		}
	}
	return Entry{}, false
}

// Describe возвращает описание или само название, если описания нет
func (g *Glossary) Describe(name string, tag language.Tag) string {
	if e, ok := g.Lookup(name, tag); ok {
		return e.Description
	}
	return name
}

// Entries - все ключевые слова базовой локали с описаниями на языке tag
func (g *Glossary) Entries(tag language.Tag) []Entry {
	tag = g.resolve(tag)
	out := make([]Entry, 0, len(g.order[g.base]))
	for _, key := range g.order[g.base] {
		e := g.entries[g.base][key]
		if localized, ok := g.entries[tag][key]; ok {
			e = localized
		}
		out = append(out, e)
	}
	return out
}

func (g *Glossary) resolve(tag language.Tag) language.Tag {
	if _, ok := g.entries[tag]; ok {
		return tag
	}
	_, idx, conf := g.matcher.Match(tag)
	if conf == language.No {
		return g.base
	}
	return g.tags[idx]
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func candidateKeys(name string) []string {
	key := normalizeKey(name)
	keys := []string{key}
	if prefix, rest, found := strings.Cut(key, " ("); found && strings.HasSuffix(rest, ")") {
		keys = append(keys, prefix+" (x)")
	}
	return keys
}
