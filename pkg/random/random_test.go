package random

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUniformAndBetweenStayInRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		v := Uniform(0.1, 0.2)
		assert.GreaterOrEqual(t, v, 0.1)
		assert.Less(t, v, 0.2)

		n := Between(20, 40)
		assert.GreaterOrEqual(t, n, 20)
		assert.LessOrEqual(t, n, 40)
	}
}

func TestDegenerateRangesReturnMin(t *testing.T) {
	assert.Equal(t, 5.0, Uniform(5, 5))
	assert.Equal(t, 7, Between(7, 3))
	assert.Equal(t, time.Second, Duration(time.Second, time.Second))
	assert.Equal(t, time.Duration(0), Seconds(0, 0))
}

func TestChanceExtremes(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.False(t, Chance(0))
		assert.False(t, Chance(-10))
		assert.True(t, Chance(100))
		assert.True(t, Chance(150))
	}
}

func TestHoursToDuration(t *testing.T) {
	assert.Equal(t, 6*time.Minute, HoursToDuration(0.1))
	assert.Equal(t, 2*time.Hour, HoursToDuration(2))
}

func TestPick(t *testing.T) {
	assert.Equal(t, "", Pick([]string(nil)))
	assert.Equal(t, "唯一", Pick([]string{"唯一"}))

	items := []string{"甲", "乙", "丙"}
	for i := 0; i < 50; i++ {
		assert.Contains(t, items, Pick(items))
	}
}
