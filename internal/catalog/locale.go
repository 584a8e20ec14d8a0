package catalog

import (
	"strings"

	"github.com/villagambera/channelbridge/internal/catalog/domain"
	"golang.org/x/text/language"
)

var (
	supportedTags = func() []language.Tag {
		tags := make([]language.Tag, 0, len(domain.SupportedLocales))
		for _, locale := range domain.SupportedLocales {
			tags = append(tags, language.MustParse(locale))
		}
		return tags
	}()
	matcher = language.NewMatcher(supportedTags)
)

// MatchLocale picks the supported locale closest to preference, which may be a
// bare locale ("hr") or an Accept-Language header value.
func MatchLocale(preference string) string {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return domain.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(preference)
	if err != nil || len(tags) == 0 {
		return domain.DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return domain.DefaultLocale
	}
	return domain.SupportedLocales[index]
}
