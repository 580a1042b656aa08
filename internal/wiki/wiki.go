// Package wiki holds the in-game reference articles and a forgiving search
// over them.
package wiki

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/agnivade/levenshtein"

	"github.com/nightfall/mafiatui/internal/game"
)

type Kind string

const (
	KindFaction Kind = "faction"
	KindRole    Kind = "role"
	KindRules   Kind = "rules"
)

type Article struct {
	Slug    string       `toml:"slug"`
	Title   string       `toml:"title"`
	Kind    Kind         `toml:"kind"`
	Faction game.Faction `toml:"faction"`
	Body    string       `toml:"body"`
}

//go:embed articles.toml
var articlesTOML []byte

type Wiki struct {
	articles []Article
	bySlug   map[string]int
}

// Load parses the bundled articles.
func Load() (*Wiki, error) {
	return Parse(articlesTOML)
}

// Parse builds a Wiki from TOML with an [[article]] array.
func Parse(data []byte) (*Wiki, error) {
	var doc struct {
		Articles []Article `toml:"article"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse articles: %w", err)
	}
	w := &Wiki{bySlug: map[string]int{}}
	for _, a := range doc.Articles {
		a.Slug = strings.TrimSpace(a.Slug)
		if a.Slug == "" || a.Title == "" {
			return nil, fmt.Errorf("article %q: slug and title are required", a.Slug)
		}
		if _, dup := w.bySlug[a.Slug]; dup {
			return nil, fmt.Errorf("article %q defined twice", a.Slug)
		}
		w.bySlug[a.Slug] = len(w.articles)
		w.articles = append(w.articles, a)
	}
	return w, nil
}

// Articles returns every article in file order.
func (w *Wiki) Articles() []Article {
	return append([]Article(nil), w.articles...)
}

func (w *Wiki) Get(slug string) (Article, bool) {
	i, ok := w.bySlug[slug]
	if !ok {
		return Article{}, false
	}
	return w.articles[i], true
}

// Result is a scored search hit. Higher scores rank first.
type Result struct {
	Article Article
	Score   float64
}

// Search ranks articles against query. Exact and prefix title matches win,
// then substring matches in the title or body, then titles within a small
// edit distance of any query word. An empty query lists everything.
func (w *Wiki) Search(query string) []Result {
	q := normalise(query)
	if q == "" {
		out := make([]Result, len(w.articles))
		for i, a := range w.articles {
			out[i] = Result{Article: a}
		}
		return out
	}

	var out []Result
	for _, a := range w.articles {
		if score := scoreArticle(q, a); score > 0 {
			out = append(out, Result{Article: a, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Article.Title < out[j].Article.Title
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func scoreArticle(q string, a Article) float64 {
	title := normalise(a.Title)
	switch {
	case title == q || a.Slug == q:
		return 1
	case strings.HasPrefix(title, q):
		return 0.9
	case strings.Contains(title, q):
		return 0.8
	case string(a.Faction) == q:
		return 0.7
	case strings.Contains(normalise(a.Body), q):
		return 0.5
	}

	best := 0.0
	for _, word := range strings.Fields(q) {
		if len(word) < 3 {
			continue
		}
		for _, tw := range strings.Fields(title) {
			dist := levenshtein.ComputeDistance(word, tw)
			if dist > distanceLimit(len(tw)) {
				continue
			}
			if s := 0.6 - 0.1*float64(dist); s > best {
				best = s
			}
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
