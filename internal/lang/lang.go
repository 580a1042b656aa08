// Package lang looks up UI strings by key for the active locale.
package lang

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// BaseLocale is consulted when the active locale lacks a key.
const BaseLocale = "en-US"

// Translator resolves message keys. Translate never fails: an unknown key
// comes back unchanged.
type Translator interface {
	Translate(key string) string
}

//go:embed locales/*.toml
var embedded embed.FS

type localeFile struct {
	Locale   string            `toml:"locale"`
	Name     string            `toml:"name"`
	Messages map[string]string `toml:"messages"`
}

// Locale describes one loaded locale.
type Locale struct {
	Tag  string
	Name string
}

type Catalog struct {
	builder  *catalog.Builder
	messages map[string]map[string]string
	names    map[string]string
	active   string
	printers map[string]*message.Printer
}

// LoadEmbedded loads the locales shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embedded, "locales")
}

// LoadFromFS loads every *.toml file in dir.
func LoadFromFS(fsys fs.FS, dir string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files in %s", dir)
	}
	sort.Strings(paths)

	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		messages: map[string]map[string]string{},
		names:    map[string]string{},
		printers: map[string]*message.Printer{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		var f localeFile
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		if err := c.add(p, f); err != nil {
			return nil, err
		}
	}
	if _, ok := c.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	c.active = BaseLocale
	return c, nil
}

func (c *Catalog) add(p string, f localeFile) error {
	locale := strings.TrimSpace(f.Locale)
	if locale == "" {
		return fmt.Errorf("%s: locale is required", p)
	}
	if want := strings.TrimSuffix(path.Base(p), ".toml"); locale != want {
		return fmt.Errorf("%s: locale %q must match file name %q", p, locale, want)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("%s: parse locale: %w", p, err)
	}
	msgs := make(map[string]string, len(f.Messages))
	for key, value := range f.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%s: blank message key", p)
		}
		// catalog strings are printf formats; stored text is literal
		if err := c.builder.SetString(tag, key, strings.ReplaceAll(value, "%", "%%")); err != nil {
			return fmt.Errorf("%s: register %q: %w", p, key, err)
		}
		msgs[key] = value
	}
	c.messages[locale] = msgs
	c.names[locale] = f.Name
	c.printers[locale] = message.NewPrinter(tag, message.Catalog(c.builder))
	return nil
}

// Locales lists the loaded locales sorted by tag.
func (c *Catalog) Locales() []Locale {
	out := make([]Locale, 0, len(c.names))
	for tag, name := range c.names {
		out = append(out, Locale{Tag: tag, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func (c *Catalog) Active() string { return c.active }

// SetLocale switches the active locale.
func (c *Catalog) SetLocale(locale string) error {
	locale = strings.TrimSpace(locale)
	if _, ok := c.messages[locale]; !ok {
		return fmt.Errorf("unknown locale %q", locale)
	}
	c.active = locale
	return nil
}

func (c *Catalog) Translate(key string) string {
	for _, locale := range []string{c.active, BaseLocale} {
		if _, ok := c.messages[locale][key]; ok {
			return c.printers[locale].Sprintf(key)
		}
	}
	return key
}
