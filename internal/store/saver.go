package store

import (
	"log/slog"
	"sync"

	"github.com/luki/thermo/internal/sensor"
)

type saveReq struct {
	h1, h2 []sensor.Sample
}

// Saver runs snapshot writes on its own goroutine so a slow disk never
// delays the tick loop. Enqueue never blocks; if a write is already
// pending the older request is replaced, since only the latest state
// is worth keeping.
type Saver struct {
	store *FileStore
	log   *slog.Logger

	reqs chan saveReq
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewSaver starts the background writer.
func NewSaver(fs *FileStore, log *slog.Logger) *Saver {
	s := &Saver{
		store: fs,
		log:   log,
		reqs:  make(chan saveReq, 1),
		stop:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Enqueue schedules a snapshot write without blocking.
func (s *Saver) Enqueue(h1, h2 []sensor.Sample) {
	req := saveReq{h1: h1, h2: h2}
	for {
		select {
		case s.reqs <- req:
			return
		default:
		}
		select {
		case <-s.reqs: // drop the stale pending write
		default:
		}
	}
}

// Close flushes any pending write and stops the worker. Best-effort:
// a failed final write is logged like any other.
func (s *Saver) Close() {
	close(s.stop)
	s.wg.Wait()
}

func (s *Saver) run() {
	defer s.wg.Done()
	for {
		select {
		case req := <-s.reqs:
			s.write(req)
		case <-s.stop:
			select {
			case req := <-s.reqs:
				s.write(req)
			default:
			}
			return
		}
	}
}

func (s *Saver) write(req saveReq) {
	if err := s.store.Save(req.h1, req.h2); err != nil {
		s.log.Error("history snapshot save failed", "path", s.store.Path(), "error", err)
	}
}
