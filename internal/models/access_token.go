package models

import "github.com/vipul43/sky-pledge/internal/warehouse"

// Access-code audit table columns
const (
	ColumnUserID          = "USER_ID"
	ColumnAccessToken     = "ACCESS_TOKEN"
	ColumnRefreshToken    = "REFRESH_TOKEN"
	ColumnEnvironmentName = "ENVIRONMENT_NAME"
	ColumnEmail           = "EMAIL"
)

// AccessToken is the token endpoint response recorded once per run in the
// access-code audit table.
type AccessToken struct {
	UserID          string
	AccessToken     string
	RefreshToken    string
	EnvironmentName string
	Email           string
}

// Row returns the audit row keyed by column name.
func (t AccessToken) Row() warehouse.Row {
	return warehouse.Row{
		ColumnUserID:          t.UserID,
		ColumnAccessToken:     t.AccessToken,
		ColumnRefreshToken:    t.RefreshToken,
		ColumnEnvironmentName: t.EnvironmentName,
		ColumnEmail:           t.Email,
	}
}
