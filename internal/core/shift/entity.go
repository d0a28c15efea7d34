package shift

import "time"

// Shift は 1 回の出退勤記録です。EndTime が nil の間は勤務中を表します。
type Shift struct {
	ID         string
	EmployeeID string
	StartTime  time.Time
	EndTime    *time.Time
	ShiftDate  time.Time
	CreatedAt  time.Time
}

// Open は勤務中 (退勤未記録) かどうかを返します。
func (s *Shift) Open() bool {
	return s.EndTime == nil
}
