package editor

import "time"

// Timer — отложенный вызов, который можно отменить.
type Timer interface {
	Stop() bool
}

// Scheduler откладывает вызовы. В тестах подменяется ручными часами.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler работает поверх time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}
