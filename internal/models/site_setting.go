package models

import "time"

// SiteSetting is an admin-managed key/value pair (footer links, contact
// addresses, feature toggles). Reads are public; writes are admin-gated.
type SiteSetting struct {
	ID           string    `json:"id" bson:"_id"`
	SettingKey   string    `json:"setting_key" bson:"setting_key"`
	SettingValue string    `json:"setting_value" bson:"setting_value"`
	UpdatedBy    string    `json:"updated_by" bson:"updated_by,omitempty"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type SettingInput struct {
	SettingKey   string `json:"setting_key"`
	SettingValue string `json:"setting_value"`
}

type SetSiteSettingsRequest struct {
	Settings []SettingInput `json:"settings"`
}

func (r *SetSiteSettingsRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if len(r.Settings) == 0 {
		errors["settings"] = "Missing settings"
		return errors
	}
	for _, s := range r.Settings {
		if s.SettingKey == "" {
			errors["settings"] = "Every setting needs a setting_key"
			break
		}
	}

	return errors
}
