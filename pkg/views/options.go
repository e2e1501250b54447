package views

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/tags"
)

// Capitalize upper-cases the first letter and lower-cases the rest,
// so "EventBrite" is shown as "Eventbrite".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	// Casers keep state and must not be shared between goroutines.
	upper, lower := cases.Upper(language.Und), cases.Lower(language.Und)
	_, size := utf8.DecodeRuneInString(s)
	var sb strings.Builder
	sb.WriteString(upper.String(s[:size]))
	sb.WriteString(lower.String(s[size:]))
	return sb.String()
}

// BuildOptions lists selector values with display labels. Map tags are
// "All" followed by the mapping keys in file order.
func BuildOptions(m *tags.Mapping) models.Options {
	sources := make([]models.Option, 0, len(models.SourceOptions))
	for _, s := range models.SourceOptions {
		sources = append(sources, option(string(s)))
	}

	keys := m.Keys()
	tagOpts := make([]models.Option, 0, len(keys)+1)
	tagOpts = append(tagOpts, option(models.TagAll))
	for _, k := range keys {
		tagOpts = append(tagOpts, option(k))
	}

	return models.Options{
		MapSources:  sources,
		MapTags:     tagOpts,
		FreqSources: append([]models.Option(nil), sources...),
	}
}

func option(v string) models.Option {
	return models.Option{Value: v, Label: Capitalize(v)}
}
