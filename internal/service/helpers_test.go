package service_test

import (
	"time"
)

// fixedRandom всегда выбирает первый элемент и переворачивает порядок при Shuffle.
type fixedRandom struct{}

func (fixedRandom) Intn(int) int { return 0 }

func (fixedRandom) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
