package dto

import "github.com/aarondl/null/v8"

type CheckInDTO struct {
	Note string `json:"note" validate:"max=1000"`
}

type AttendanceDTO struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	CheckInAt  string    `json:"check_in_at"`
	CheckOutAt null.Time `json:"check_out_at"`
	Note       string    `json:"note"`
}
