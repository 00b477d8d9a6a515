package models

// SettingsCookie is the client-side key the preferences are persisted under.
const SettingsCookie = "userSettings"

// UserSettings are per-browser preferences. They have no server-side copy.
type UserSettings struct {
	Notifications bool   `json:"notifications"`
	AutoSave      bool   `json:"autoSave"`
	CompactView   bool   `json:"compactView"`
	ShowTooltips  bool   `json:"showTooltips"`
	Language      string `json:"language" validate:"oneof=pt-BR en-US es-ES"`
	ItemsPerPage  string `json:"itemsPerPage" validate:"oneof=5 10 25 50"`
}

// DefaultUserSettings returns the hardcoded defaults restored by a reset.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Notifications: true,
		AutoSave:      true,
		CompactView:   false,
		ShowTooltips:  true,
		Language:      "pt-BR",
		ItemsPerPage:  "10",
	}
}
