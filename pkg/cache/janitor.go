package cache

import (
	"context"
	"sync"
	"time"
)

// Janitor periodically validates a LocalLoader, dropping expired or
// unreadable entries.
type Janitor struct {
	loader   *LocalLoader
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// StartJanitor validates immediately and then on every interval until Close.
func StartJanitor(loader *LocalLoader, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	j := &Janitor{
		loader:   loader,
		interval: interval,
		done:     make(chan struct{}),
	}
	j.wg.Add(1)
	go j.loop()
	return j
}

func (j *Janitor) loop() {
	defer j.wg.Done()
	j.loader.Validate(context.Background())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.loader.Validate(context.Background())
		}
	}
}

// Close stops the loop and waits for a running validation to finish.
func (j *Janitor) Close() error {
	j.once.Do(func() { close(j.done) })
	j.wg.Wait()
	return nil
}
