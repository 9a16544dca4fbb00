package random

import (
	"math/rand"
	"time"
)

// Uniform 返回[min, max)范围内的随机浮点数。
func Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rand.Float64()*(max-min)
}

// Between 返回[min, max]范围内的随机整数。
func Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}

// Duration 返回[min, max)范围内的随机时长。
func Duration(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// Seconds 把[min, max]秒的区间转换为一段随机时长，支持小数秒。
func Seconds(min, max float64) time.Duration {
	return time.Duration(Uniform(min, max) * float64(time.Second))
}

// Chance 按百分比概率掷一次骰子。percent<=0恒为false，>=100恒为true。
func Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return rand.Intn(100) < percent
}

// HoursToDuration 把以小时计的配置值（允许小数，如0.1小时）转换为时长。
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// Pick 从列表中随机挑选一项。列表为空时返回零值。
func Pick[T any](items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[rand.Intn(len(items))]
}
