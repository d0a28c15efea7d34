package employee

import "time"

// Employee は従業員エンティティです。
// CPF と Code は作成時に確定し、以後変更できません。
type Employee struct {
	ID           string
	Name         string
	CPF          string
	Code         string
	HiredAt      time.Time
	TerminatedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminated は従業員が退職済みかどうかを返します。
func (e *Employee) Terminated() bool {
	return e.TerminatedAt != nil
}
