package models

import "database/sql"

// LoginRow is one row read back from user_logins. Columns are nullable
// because rows may have been written by other tools.
type LoginRow struct {
	UserID         sql.NullString
	DeviceType     sql.NullString
	MaskedIP       sql.NullString
	MaskedDeviceID sql.NullString
	Locale         sql.NullString
	AppVersion     sql.NullInt64
	CreateDate     sql.NullString
}
