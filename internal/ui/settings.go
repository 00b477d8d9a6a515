package ui

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/notify"
)

var (
	settingsValidator = validator.New()

	supportedLanguages = []language.Tag{
		language.BrazilianPortuguese,
		language.AmericanEnglish,
		language.EuropeanSpanish,
	}
	languageMatcher = language.NewMatcher(supportedLanguages)
)

type settingsBody struct {
	Languages    []languageOption
	PageSizes    []string
	FromDefaults bool
}

type languageOption struct {
	Value string
	Label string
}

var languageOptions = []languageOption{
	{"pt-BR", "Português"},
	{"en-US", "English"},
	{"es-ES", "Español"},
}

// matchLanguage picks the supported language closest to an Accept-Language
// header.
func matchLanguage(accept string) string {
	tag, _ := language.MatchStrings(languageMatcher, accept)
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return "en-US"
	case "es":
		return "es-ES"
	default:
		return "pt-BR"
	}
}

// readSettings decodes the preferences cookie, falling back to the defaults
// for anything missing or invalid.
func readSettings(r *http.Request) models.UserSettings {
	s, _ := storedSettings(r)
	return s
}

func storedSettings(r *http.Request) (models.UserSettings, bool) {
	defaults := models.DefaultUserSettings()
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		defaults.Language = matchLanguage(accept)
	}

	c, err := r.Cookie(models.SettingsCookie)
	if err != nil {
		return defaults, false
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return defaults, false
	}
	s := defaults
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return defaults, false
	}
	if err := settingsValidator.Struct(s); err != nil {
		return defaults, false
	}
	return s, true
}

func writeSettings(w http.ResponseWriter, s models.UserSettings, secure bool) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     models.SettingsCookie,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) settingsPage(w http.ResponseWriter, r *http.Request) {
	_, stored := storedSettings(r)
	body := settingsBody{
		Languages:    languageOptions,
		PageSizes:    []string{"5", "10", "25", "50"},
		FromDefaults: !stored,
	}
	h.render(w, http.StatusOK, "settings", h.newView(w, r, "Configurações", "", nil, body))
}

func (h *Handler) saveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := models.UserSettings{
		Notifications: r.PostForm.Get("notifications") == "on",
		AutoSave:      r.PostForm.Get("autoSave") == "on",
		CompactView:   r.PostForm.Get("compactView") == "on",
		ShowTooltips:  r.PostForm.Get("showTooltips") == "on",
		Language:      r.PostForm.Get("language"),
		ItemsPerPage:  r.PostForm.Get("itemsPerPage"),
	}
	if err := settingsValidator.Struct(s); err != nil {
		h.redirect(w, r, "/configuracoes", []notify.Notice{
			notify.Failure("Erro", "Configurações inválidas."),
		})
		return
	}
	if err := writeSettings(w, s, h.opts.Secure); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/configuracoes", []notify.Notice{
		notify.Success("Configurações salvas", "Suas preferências foram atualizadas com sucesso."),
	})
}

// resetSettings drops the cookie so the defaults apply again.
func (h *Handler) resetSettings(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     models.SettingsCookie,
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.redirect(w, r, "/configuracoes", []notify.Notice{
		notify.Success("Configurações resetadas", "Todas as configurações foram restauradas para o padrão."),
	})
}
