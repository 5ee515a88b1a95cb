package common

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

var (
	randOnce sync.Once
	rnd      *rand.Rand
	randMu   sync.Mutex
)

// RandBetween 生成 [min, max) 范围内的随机整数
func RandBetween(min, max int) int {
	if max <= min {
		return min
	}
	randOnce.Do(func() {
		rnd = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	})
	randMu.Lock()
	defer randMu.Unlock()
	return rnd.Intn(max-min) + min
}
