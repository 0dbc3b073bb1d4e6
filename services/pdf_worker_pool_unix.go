//go:build unix

package services

import (
	"fmt"
	"sync/atomic"
)

// WorkerPool is the process-pool PDF engine (§4.E, Unix-like hosts
// only): N independently-owned chromedp browser processes, each
// draining its own job queue, dispatched round-robin. Every pool
// member reuses SingleWorker verbatim — "this pattern must be reused
// verbatim for the process-pool variant" (§9) — so the only new code
// here is the dispatch index.
type WorkerPool struct {
	workers []*SingleWorker
	next    uint64
}

// StartWorkerPool spawns size independent workers up front. A failure
// spawning any member tears down the ones already started and is
// reported as SpawnError (§4.E failure taxonomy) wrapped as PdfError.
func StartWorkerPool(size int) (*WorkerPool, error) {
	workers := make([]*SingleWorker, 0, size)
	for i := 0; i < size; i++ {
		w, err := StartSingleWorker()
		if err != nil {
			for _, started := range workers {
				started.Stop()
			}
			return nil, pdfErr(fmt.Sprintf("SpawnError: pool member %d: %v", i, err))
		}
		workers = append(workers, w)
	}
	return &WorkerPool{workers: workers}, nil
}

// Submit dispatches html round-robin to the next pool member's own job
// queue and awaits that member's reply. Whether the member is busy is not
// checked; a job sent to a busy member waits in that member's queue. An error originating in a pool
// member has already crossed its process boundary as a chromedp DevTools
// process, so it is re-wrapped as RawError per §9's cross-process error
// transport rule and treated as terminal by the caller.
func (p *WorkerPool) Submit(html string) ([]byte, error) {
	idx := atomic.AddUint64(&p.next, 1) % uint64(len(p.workers))
	bytes, err := p.workers[idx].Submit(html)
	if err != nil {
		return nil, pdfErr("RawError: " + err.Error())
	}
	return bytes, nil
}

// Stop tears down every pool member's browser process.
func (p *WorkerPool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
}
