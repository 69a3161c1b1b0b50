package i18n

import (
	_ "embed"
	"encoding/json"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Locale files are embedded so label resolution does not depend on the
// process working directory.
var (
	//go:embed locales/vi.json
	viLocale []byte
	//go:embed locales/en.json
	enLocale []byte
)

// I18nSupport holds the message bundle for user-facing labels. Status codes
// are machine values everywhere in business logic; these lookups exist only
// for presentation.
type I18nSupport struct {
	bundle *i18n.Bundle
}

// NewI18nSupport parses the embedded vi and en locale files.
func NewI18nSupport(defaultLang string) (*I18nSupport, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes(viLocale, "vi.json"); err != nil {
		return nil, err
	}
	if _, err := bundle.ParseMessageFileBytes(enLocale, "en.json"); err != nil {
		return nil, err
	}

	return &I18nSupport{bundle: bundle}, nil
}

// T returns the translation for key in the given language, falling back to
// the key itself.
func (i *I18nSupport) T(languageTag, key string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(i.bundle, languageTag)

	translation, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})
	if err != nil {
		return key
	}
	return translation
}

// StatusLabel resolves the display label for a status code, e.g.
// ("vi", "request", "PENDING") -> "Chờ xử lý".
func (i *I18nSupport) StatusLabel(languageTag, entity, code string) string {
	return i.T(languageTag, "status."+entity+"."+code, nil)
}
