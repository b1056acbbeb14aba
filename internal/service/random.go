package service

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource - источник случайности для перемешивания и выбора тем.
// *rand.Rand удовлетворяет интерфейсу, но не безопасен для конкурентного использования,
// поэтому по умолчанию используется NewLockedRandom.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Clock - источник текущего времени.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock возвращает часы на time.Now.
func SystemClock() Clock { return systemClock{} }

type lockedRandom struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRandom создает потокобезопасный RandomSource с заданным seed.
func NewLockedRandom(seed int64) RandomSource {
	return &lockedRandom{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}

func (r *lockedRandom) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rnd.Shuffle(n, swap)
}
