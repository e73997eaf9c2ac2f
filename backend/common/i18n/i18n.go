package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"artfolio/backend/common"
)

//go:embed locales/*.json
var localeFS embed.FS

const DefaultLang = "en"

var translations = map[string]map[string]string{}

// Init loads the embedded locale files. Missing or malformed files are
// fatal since translations are compiled into the binary.
func Init() error {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return fmt.Errorf("read locale %s: %w", lang, err)
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parse locale %s: %w", lang, err)
		}
		translations[lang] = m
	}
	if _, ok := translations[DefaultLang]; !ok {
		return fmt.Errorf("default locale %q missing", DefaultLang)
	}
	common.SysLog(fmt.Sprintf("loaded %d locales", len(translations)))
	return nil
}

// Translate resolves a message code for the given language, falling
// back to English and finally to the code itself.
func Translate(code string, lang string, args ...interface{}) string {
	lang = normalizeLang(lang)
	msg, ok := translations[lang][code]
	if !ok {
		msg, ok = translations[DefaultLang][code]
	}
	if !ok {
		msg = code
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func normalizeLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLang
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}
