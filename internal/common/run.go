package common

import "time"

// RunSummary is the admin-surface projection of a live run.
type RunSummary struct {
	PlayerID string    `json:"playerid"`
	BankID   int       `json:"bankid"`
	BankName string    `json:"bankname"`
	Total    int       `json:"total"`
	Answered int       `json:"answered"`
	Score    int       `json:"score"`
	LastSeen time.Time `json:"lastseen"`
}
