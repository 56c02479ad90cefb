package models

import "logingest/internal/constants"

// RequiredFields must all be present in a decoded record.
var RequiredFields = []string{
	constants.FieldCreateDate,
	constants.FieldUserID,
	constants.FieldAppVersion,
	constants.FieldDeviceType,
	constants.FieldIP,
	constants.FieldDeviceID,
	constants.FieldLocale,
	constants.FieldSecretKey,
}

// SchemaRecord is a login event coerced to the user_logins column types.
// The secret key never reaches it.
type SchemaRecord struct {
	CreateDate string `json:"create_date"`
	UserID     string `json:"user_id"`
	AppVersion int32  `json:"app_version"`
	DeviceType string `json:"device_type"`
	IP         string `json:"ip"`
	DeviceID   string `json:"device_id"`
	Locale     string `json:"locale"`
}

// Params binds the record to the named parameters of the insert statement.
func (r SchemaRecord) Params() map[string]any {
	return map[string]any{
		constants.FieldUserID:     r.UserID,
		constants.FieldDeviceType: r.DeviceType,
		constants.FieldIP:         r.IP,
		constants.FieldDeviceID:   r.DeviceID,
		constants.FieldLocale:     r.Locale,
		constants.FieldAppVersion: r.AppVersion,
		constants.FieldCreateDate: r.CreateDate,
	}
}
