//go:build !unix

package services

import "log"

// WorkerPool is unavailable on non-Unix hosts (§4.E: "Process-pool mode
// (Unix-like hosts only)"). StartWorkerPool falls back to a single
// worker and logs that the requested pool size was ignored, rather than
// failing startup outright.
type WorkerPool struct {
	*SingleWorker
}

func StartWorkerPool(size int) (*WorkerPool, error) {
	log.Printf("⚠️  PDF_WORKER_POOL_SIZE=%d requested but process-pool mode is Unix-only on this build; falling back to single-worker mode", size)
	w, err := StartSingleWorker()
	if err != nil {
		return nil, err
	}
	return &WorkerPool{SingleWorker: w}, nil
}
