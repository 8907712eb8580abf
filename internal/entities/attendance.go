package entities

import "time"

type AttendanceRecord struct {
	ID         uint64     `json:"id"`
	UserID     uint64     `json:"user_id"`
	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at"`
	Note       string     `json:"note"`
}
