package common

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// 固定按非东亚宽度计算，不受 LANG 影响
var widthCond = &runewidth.Condition{StrictEmojiNeutral: true}

func FormatNumberWithHeadZeros(num int, totalDigits int) string {
	return fmt.Sprintf(fmt.Sprintf("%%0%dd", totalDigits), num)
}

// FormatPercent 百分比保留一位小数
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatCount 格式化 current/total，total 未知时显示 ?
func FormatCount(current, total uint32) string {
	if total == 0 {
		return fmt.Sprintf("%d/?", current)
	}
	return fmt.Sprintf("%d/%d", current, total)
}

// Truncate 按显示宽度截断，中文按两个宽度计算
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if widthCond.StringWidth(s) <= width {
		return s
	}
	return widthCond.Truncate(s, width, "…")
}

// PadRight 按显示宽度右侧补空格
func PadRight(s string, width int) string {
	s = Truncate(s, width)
	return s + strings.Repeat(" ", width-widthCond.StringWidth(s))
}
