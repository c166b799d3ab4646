// timer/timer.go
package timer

import (
	"container/heap"
	"time"
)

// TimerTask fires Callback once the manager's clock reaches At.
type TimerTask struct {
	Id       int64
	At       time.Duration
	Interval time.Duration
	Callback func()
	index    int
}

type TimerQueue []*TimerTask

func (q TimerQueue) Len() int { return len(q) }

// Tasks due at the same instant fire in the order they were added.
func (q TimerQueue) Less(i, j int) bool {
	if q[i].At == q[j].At {
		return q[i].Id < q[j].Id
	}
	return q[i].At < q[j].At
}

func (q TimerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *TimerQueue) Push(x interface{}) {
	n := len(*q)
	task := x.(*TimerTask)
	task.index = n
	*q = append(*q, task)
}

func (q *TimerQueue) Pop() interface{} {
	old := *q
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*q = old[0 : n-1]
	return task
}

// TimerManager is a timer queue driven by Advance instead of the wall clock.
// It is not safe for concurrent use; the owner serializes calls.
type TimerManager struct {
	queue  TimerQueue
	now    time.Duration
	nextId int64
}

func NewTimerManager() *TimerManager {
	manager := &TimerManager{
		queue:  make(TimerQueue, 0),
		nextId: 1,
	}
	heap.Init(&manager.queue)
	return manager
}

// AddTimer schedules callback delay after the current instant. Inside a callback the
// current instant is the firing task's due time, so chained timers never drift.
// A positive interval re-arms the task after every firing.
func (m *TimerManager) AddTimer(delay time.Duration, interval time.Duration, callback func()) int64 {
	if delay < 0 {
		delay = 0
	}
	task := &TimerTask{
		Id:       m.nextId,
		At:       m.now + delay,
		Interval: interval,
		Callback: callback,
	}
	m.nextId++

	heap.Push(&m.queue, task)
	return task.Id
}

func (m *TimerManager) RemoveTimer(timerId int64) {
	for i, task := range m.queue {
		if task.Id == timerId {
			heap.Remove(&m.queue, i)
			break
		}
	}
}

// Clear drops every pending task.
func (m *TimerManager) Clear() {
	for i := range m.queue {
		m.queue[i].index = -1
		m.queue[i] = nil
	}
	m.queue = m.queue[:0]
}

// Pending is the number of scheduled tasks.
func (m *TimerManager) Pending() int {
	return m.queue.Len()
}

// Now is the manager's virtual clock.
func (m *TimerManager) Now() time.Duration {
	return m.now
}

// Advance moves the clock forward by dt and runs every task that falls due, in order.
// Callbacks may add, remove or clear timers. Non-positive dt is a no-op.
func (m *TimerManager) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	target := m.now + dt

	for m.queue.Len() > 0 {
		task := m.queue[0]
		if task.At > target {
			break
		}

		heap.Pop(&m.queue)
		m.now = task.At

		if task.Interval > 0 {
			task.At += task.Interval
			heap.Push(&m.queue, task)
		}
		task.Callback()
	}
	m.now = target
}
