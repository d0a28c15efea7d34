package shift

import (
	"fmt"
	"time"
)

// DurationOf は記録の勤務時間を返します。勤務中の記録は clock の現在時刻を
// 終端として扱います。EndTime < StartTime の場合は負の値をそのまま返します。
func DurationOf(s *Shift, clock Clock) time.Duration {
	end := clock.Now()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime)
}

// FormatDuration は勤務時間を "HHh MMm" 形式に整形します。
// 時・分とも 2 桁にゼロ埋めされ、時は 99 を超えても切り詰めません。
func FormatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02dh %02dm", hours, minutes)
}

// TotalWorked は複数記録の勤務時間を合算して整形します。
// 負の勤務時間の記録はデータ不整合として加算対象から除外します。
func TotalWorked(shifts []*Shift, clock Clock) string {
	var total time.Duration
	for _, s := range shifts {
		if d := DurationOf(s, clock); d > 0 {
			total += d
		}
	}
	return FormatDuration(total)
}
