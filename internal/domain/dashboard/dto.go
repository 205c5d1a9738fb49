package dashboard

import "github.com/fichajeapp/fichaje-backend-go/internal/domain/user"

// WeeklySummaryRow is one employee's aggregated week, bonus qualification
// and absence flag. Zero-hour employees are included so managers see them.
type WeeklySummaryRow struct {
	UserID    string    `json:"userId"`
	Name      *string   `json:"name"`
	GameName  *string   `json:"gameName"`
	Role      user.Role `json:"role"`
	Ms        int64     `json:"ms"`
	Time      string    `json:"time"` // HH:MM:SS
	Qualifies bool      `json:"qualifies"`
	// BonusAmount is the flat configured amount, present only when the row
	// qualifies; it is never prorated.
	BonusAmount *string `json:"bonusAmount,omitempty"`
	AbsentNow   bool    `json:"absentNow"`
}

// WeeklySummaryResponse is the manager's weekly view.
type WeeklySummaryResponse struct {
	WeekStart      string             `json:"weekStart"`
	WeekEnd        string             `json:"weekEnd"`
	ThresholdHours float64            `json:"thresholdHours"`
	Rows           []WeeklySummaryRow `json:"rows"`
}

// TopWorker is the single highest-total user within one window.
type TopWorker struct {
	UserID   string  `json:"userId"`
	Name     *string `json:"name"`
	GameName *string `json:"gameName"`
	Ms       int64   `json:"ms"`
	Time     string  `json:"time"`
}

// TopWorkersResponse carries the per-period leaderboard leaders. A nil
// entry means no user accumulated time in that window.
type TopWorkersResponse struct {
	Day   *TopWorker `json:"day"`
	Week  *TopWorker `json:"week"`
	Month *TopWorker `json:"month"`
}
