package store

import (
	"log"
	"sync"

	"github.com/brensch/epidemic/controller"
)

// Recorder buffers match frames and writes them to a parquet file when the
// final frame arrives. Its Observe method is a controller observer.
type Recorder struct {
	outDir string

	mu   sync.Mutex
	rows []RegionRoundRow
	path string
	err  error
}

func NewRecorder(outDir string) *Recorder {
	return &Recorder{outDir: outDir}
}

func (r *Recorder) Observe(f controller.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !f.Final {
		r.rows = append(r.rows, RowsFromFrame(f)...)
		return
	}
	if len(r.rows) == 0 {
		return
	}

	path, err := WriteMatchParquet(r.outDir, f.MatchID, r.rows)
	if err != nil {
		log.Printf("Failed to record match %s: %v", f.MatchID, err)
		r.err = err
		return
	}
	log.Printf("Recorded %d rows for match %s to %s", len(r.rows), f.MatchID, path)
	r.path = path
	r.rows = nil
}

// Path is the written file, empty until the final frame is recorded.
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// Err reports the last write failure.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
