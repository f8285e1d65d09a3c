package utils

import "fmt"

// FormatMillisecondsToTime 毫秒转 HH:MM:SS，负数显示为 "-"
// 小时不按天回绕，超过 99 小时按实际位数输出
func FormatMillisecondsToTime(ms int64) string {
	if ms < 0 {
		return "-"
	}
	totalSeconds := ms / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
