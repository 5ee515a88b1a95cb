package common

import "time"

const (
	FMT_DATETIME string = "2006-01-02 15:04:05"
	FMT_TIME     string = "15:04:05"
)

// 是否为空时间
func IsNilTime(t time.Time) bool {
	return t.IsZero()
}

// FormatTime 空时间返回 -
func FormatTime(t time.Time, layout string) string {
	if IsNilTime(t) {
		return "-"
	}
	return t.Format(layout)
}
