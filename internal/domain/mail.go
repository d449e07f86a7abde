package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleAppliedMailData struct {
	Name       string `json:"name"`
	ShiftLabel string `json:"shiftLabel"`
	Kind       string `json:"kind"` // fixed 或 float
	RoomID     string `json:"roomID,omitempty"`
}

type ScheduleClearedMailData struct {
	Name       string `json:"name"`
	ShiftLabel string `json:"shiftLabel"`
}
