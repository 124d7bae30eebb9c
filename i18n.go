package main

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

const I18N_DATE_FORMAT = "2006-01-02"

var formatSpecifierRegexp = regexp.MustCompile(`{{([^}]+)}}`)

//go:embed locales
var localesFS embed.FS

// i18n is the application-wide translator, see InitI18n.
var i18n = &I18n{}

// Translation system is based on i18next, see https://www.i18next.com.
// Translation files should be compatible with i18next JS/TS libs.
// Notes (differences from https://www.i18next.com):
// - Namespaces of i18next are not supported.
// - Only JSON is supported for translations.
// - Default fallback for any `T` issue is `[fall reason] key, %s` where `%s` is a comma-separated list of "%+v" of arguments.
// Supported built-in formatting functions:
// - number (signDisplay, maximumFractionDigits, minimumFractionDigits),
// - date (Golang `time.Format` or `civil.Date`, default is `I18N_DATE_FORMAT`),
// - list (only 'separator' property is supported, ', ' by-default),
// - error (Golang `%w`).
// All locales must have the same keys. In dev mode any `T` issue panics instead of the fallback.

// InitI18n initializes the application translator with embedded locales.
func InitI18n(locale string) error {
	return i18n.Init(I18nFsBackend{FS: localesFS}, locale, false)
}

// I18nFsBackend is a struct that holds the filesystem with "locales" directory and found languages.
type I18nFsBackend struct {
	langs []string
	FS    fs.FS
}

func (b *I18nFsBackend) GetLocales() ([]string, error) {
	// If translations are already loaded, return the list of languages.
	if b.langs != nil {
		return b.langs, nil
	}
	entries, err := fs.ReadDir(b.FS, "locales")
	if err != nil {
		return nil, fmt.Errorf("can't read locales from embedded filesystem: %w", err)
	}
	b.langs = make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			b.langs = append(b.langs, entry.Name())
		}
	}
	return b.langs, nil
}

// LoadTranslations loads translations for all languages.
func (b *I18nFsBackend) LoadTranslations(defaultLang string) (map[string]map[string]interface{}, error) {
	locales, err := b.GetLocales()
	if err != nil {
		return nil, err
	}
	// Check default language is in the list
	if !slices.Contains(locales, defaultLang) {
		return nil, fmt.Errorf("default language '%s' is not in the list of languages", defaultLang)
	}
	translations := make(map[string]map[string]interface{})
	for _, locale := range locales {
		data, err := fs.ReadFile(b.FS, "locales/"+locale+"/translation.json")
		if err != nil {
			return nil, err
		}
		var translation map[string]interface{}
		if err := json.Unmarshal(data, &translation); err != nil {
			return nil, fmt.Errorf("can't parse '%s' translations: %w", locale, err)
		}
		translations[locale] = translation
	}
	return translations, nil
}

// I18n is a translator based on i18next.
type I18n struct {
	backend      I18nFsBackend
	locale       string
	translations map[string]map[string]interface{}
	funcs        map[string]func(entry interface{}, props map[string]interface{}) string
	devMode      bool
}

// Init initializes the translator instance with the backend and default locale.
func (i18n *I18n) Init(backend I18nFsBackend, defaultLocale string, devMode bool) error {
	i18n.backend = backend
	i18n.locale = defaultLocale
	i18n.devMode = devMode
	var err error
	i18n.translations, err = i18n.backend.LoadTranslations(defaultLocale)
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	if err := i18n.validateKeys(); err != nil {
		return err
	}
	i18n.funcs = i18n.buildDefaultFormatters()
	return nil
}

// Locale returns current locale.
func (i18n *I18n) Locale() string {
	return i18n.locale
}

// buildDefaultFormatters builds default formatters.
func (i18n *I18n) buildDefaultFormatters() map[string]func(val interface{}, props map[string]interface{}) string {
	result := make(map[string]func(val interface{}, props map[string]interface{}) string)

	result["number"] = i18n.number

	// Date format, use I18N_DATE_FORMAT as default.
	result["date"] = func(val interface{}, props map[string]interface{}) string {
		layout := I18N_DATE_FORMAT
		if format, ok := props["format"].(string); ok {
			layout = format
		}
		switch v := val.(type) {
		case time.Time:
			return v.Format(layout)
		case civil.Date:
			return v.In(time.UTC).Format(layout)
		}
		return fmt.Sprintf("%+v", val)
	}

	// List format, supports only "separator" property.
	result["list"] = func(value interface{}, props map[string]interface{}) string {
		var strSlice []string

		switch v := value.(type) {
		case []string:
			strSlice = v
		case []interface{}:
			strSlice = make([]string, len(v))
			for i, item := range v {
				strSlice[i] = fmt.Sprintf("%v", item)
			}
		default:
			// Check if it's any other kind of slice/array using reflection
			val := reflect.ValueOf(value)
			if val.Kind() == reflect.Slice || val.Kind() == reflect.Array {
				strSlice = make([]string, val.Len())
				for i := 0; i < val.Len(); i++ {
					strSlice[i] = fmt.Sprintf("%v", val.Index(i).Interface())
				}
			} else {
				// If it's not a slice/array at all, treat it as a single item
				return fmt.Sprintf("%v", value)
			}
		}

		if len(strSlice) == 0 {
			return ""
		}
		separator := ", "
		if sep, ok := props["separator"]; ok {
			separator = sep.(string)
		}
		return strings.Join(strSlice, separator)
	}

	// Error format - based on `%w`.
	result["error"] = func(val interface{}, props map[string]interface{}) string {
		if err, ok := val.(error); ok {
			return err.Error()
		}
		return fmt.Sprintf("%v", val)
	}
	return result
}

// SetLocale sets the locale for the translator.
func (i18n *I18n) SetLocale(locale string) error {
	if _, ok := i18n.translations[locale]; !ok {
		return fmt.Errorf("locale '%s' is not supported", locale)
	}
	i18n.locale = locale
	return nil
}

// validateKeys checks that all keys exist in all translations.
func (i18n *I18n) validateKeys() error {
	keysInLocales := make(map[string][]string)
	locales := []string{}
	for locale, translations := range i18n.translations {
		for key := range translations {
			keysInLocales[key] = append(keysInLocales[key], locale)
		}
		locales = append(locales, locale)
	}
	var problems []string
	for key, existInLocales := range keysInLocales {
		if len(existInLocales) == len(locales) {
			continue
		}
		missedLocales := []string{}
		for _, locale := range locales {
			if !slices.Contains(existInLocales, locale) {
				missedLocales = append(missedLocales, locale)
			}
		}
		slices.Sort(missedLocales)
		problems = append(problems, fmt.Sprintf("key '%s' is missed in translations: '%s'", key, strings.Join(missedLocales, ", ")))
	}
	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("inconsistent translations: %s", strings.Join(problems, "; "))
	}
	return nil
}

// T translates a key with named arguments and fallback to the key and args if translation is not found.
// Named arguments are passed as `argKey, argValue` pairs after the translation key.
// Usage is: `T("p unknown cash flow types will be ignored", "p", "Mintos", "types", "Foo, Bar")`
// where translation key is defined as `"{{p}}: unknown cash flow type will be ignored in result: {{types}}"`.
// Notes:
// - Translation key is not allowed to contain ':', '.' characters.
// - Argument keys should be unique and match values in translation.
func (i18n *I18n) T(key string, args ...interface{}) string {
	var entry interface{}
	var ok bool
	if entry, ok = i18n.translations[i18n.locale][key]; !ok {
		return i18n.Tfallback("missed key", key, args...)
	}

	// Parse args as key-value pairs.
	props := make(map[string]interface{})
	var argKey string
	for i, arg := range args {
		if i%2 == 0 {
			if argKey, ok = arg.(string); !ok {
				return i18n.Tfallback(fmt.Sprintf("wrong call - odd argument '%v' is not a string", arg), key, args...)
			}
		} else {
			props[argKey] = arg
		}
	}

	v, ok := entry.(string)
	if !ok {
		return i18n.Tfallback("invalid translation type", key, args...)
	}

	// Parse format specifiers like {{val, number}} or {{val, list(separator: '; ')}}
	result := v
	for _, match := range formatSpecifierRegexp.FindAllStringSubmatch(result, -1) {
		placeholder := match[0]
		propKey, formatterSpec, hasFormatter := strings.Cut(strings.TrimSpace(match[1]), ",")
		propKey = strings.TrimSpace(propKey)
		propValue, exists := props[propKey]
		if !exists {
			return i18n.Tfallback(fmt.Sprintf("'%s' value is missed", propKey), key, args...)
		}
		if !hasFormatter {
			// Simple interpolation without formatting.
			result = strings.Replace(result, placeholder, fmt.Sprintf("%v", propValue), -1)
			continue
		}

		// Parse formatter name and options
		formatterSpec = strings.TrimSpace(formatterSpec)
		formatterName := formatterSpec
		formatterOptions := make(map[string]interface{})
		if idx := strings.Index(formatterSpec, "("); idx != -1 {
			if !strings.HasSuffix(formatterSpec, ")") {
				return i18n.Tfallback(fmt.Sprintf("malformed formatter call '%s' - missing closing bracket", formatterSpec), key, args...)
			}
			formatterName = strings.TrimSpace(formatterSpec[:idx])
			optionsStr := strings.TrimSpace(formatterSpec[idx+1 : len(formatterSpec)-1])
			if optionsStr != "" {
				for _, pair := range strings.Split(optionsStr, ";") {
					optKey, optVal, found := strings.Cut(pair, ":")
					if !found {
						return i18n.Tfallback(fmt.Sprintf("malformed option '%s' in '%s' formatter call", pair, formatterName), key, args...)
					}
					optVal = strings.TrimSpace(optVal)
					// Remove quotes if present
					if len(optVal) >= 2 && (optVal[0] == '\'' || optVal[0] == '"') {
						optVal = optVal[1 : len(optVal)-1]
					}
					formatterOptions[strings.TrimSpace(optKey)] = optVal
				}
			}
		}

		formatter := i18n.funcs[formatterName]
		if formatter == nil {
			return i18n.Tfallback(fmt.Sprintf("'%s' in translation misses '%s' formatter name", propKey, formatterName), key, args...)
		}
		// Merge formatter options with props
		options := make(map[string]interface{}, len(props)+len(formatterOptions))
		for k, v := range props {
			options[k] = v
		}
		for k, v := range formatterOptions {
			options[k] = v
		}
		result = strings.Replace(result, placeholder, formatter(propValue, options), -1)
	}
	return result
}

func (i18n *I18n) Tfallback(reason, key string, args ...interface{}) string {
	// Fallback: if translation fails, build list of "%+v" of args.
	var argsList []string
	for _, arg := range args {
		argsList = append(argsList, fmt.Sprintf("%+v", arg))
	}
	if i18n.devMode {
		panic(fmt.Sprintf("[%s: %s] %s, %s", i18n.locale, reason, key, strings.Join(argsList, ", ")))
	}
	return fmt.Sprintf("[%s: %s] %s, %s", i18n.locale, reason, key, strings.Join(argsList, ", "))
}

// number formats a decimal number based on the specified options.
func (i18n *I18n) number(value interface{}, props map[string]interface{}) string {
	var val decimal.Decimal
	switch v := value.(type) {
	case Amount:
		if !v.Valid {
			return NotApplicableText
		}
		val = v.Value
	case decimal.Decimal:
		val = v
	case float64:
		val = decimal.NewFromFloat(v)
	case int:
		val = decimal.NewFromInt(int64(v))
	default:
		return fmt.Sprintf("%+v", value)
	}

	maxFracDigits := 3 // default for plain number formatting
	if mfd, ok := props["maximumFractionDigits"]; ok {
		maxFracDigits = toInt(mfd)
	}
	minFracDigits := 0
	if mfd, ok := props["minimumFractionDigits"]; ok {
		minFracDigits = toInt(mfd)
	}
	if minFracDigits > maxFracDigits {
		maxFracDigits = minFracDigits
	}

	rounded := val.Round(int32(maxFracDigits))
	result := rounded.Abs().String()
	intPart, fracPart, _ := strings.Cut(result, ".")
	for len(fracPart) < minFracDigits {
		fracPart += "0"
	}
	if fracPart != "" {
		result = intPart + "." + fracPart
	} else {
		result = intPart
	}

	signDisplay := "auto"
	if sd, ok := props["signDisplay"].(string); ok {
		signDisplay = sd
	}
	sign := ""
	switch signDisplay {
	case "always":
		if rounded.IsNegative() {
			sign = "-"
		} else {
			sign = "+"
		}
	case "exceptZero":
		if rounded.IsPositive() {
			sign = "+"
		} else if rounded.IsNegative() {
			sign = "-"
		}
	case "never":
		// No sign
	default: // "auto"
		if rounded.IsNegative() {
			sign = "-"
		}
	}
	return sign + result
}

func toInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case string:
		result, _ := strconv.Atoi(v)
		return result
	}
	return 0
}
