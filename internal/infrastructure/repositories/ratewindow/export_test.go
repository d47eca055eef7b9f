package ratewindow

import "time"

func SetMemoryClock(repo *MemoryRateWindowRepository, now func() time.Time) {
	repo.now = now
}

func SetRedisClock(repo *RedisRateWindowRepository, now func() time.Time) {
	repo.now = now
}
