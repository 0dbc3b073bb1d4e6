package services

import (
	"container/list"
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFEngine is the contract the coordinator submits rendering jobs
// against, satisfied by both the single-worker and the process-pool
// implementations (§4.E).
type PDFEngine interface {
	Submit(html string) ([]byte, error)
}

// pdfJob is the ephemeral (html, reply) tuple of §3's "PDF Job". The
// reply channel is buffered by one so the worker's send never blocks
// on an abandoned requester (§5 cancellation rule).
type pdfJob struct {
	html  string
	reply chan pdfResult
}

type pdfResult struct {
	bytes []byte
	err   error
}

// jobQueue is the unbounded multi-producer, single-consumer queue
// backing single-worker mode. Go channels have no unbounded variant,
// so it is hand-rolled from container/list guarded by a sync.Cond —
// no more than the language requires, and no further (see DESIGN.md).
type jobQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  *list.List
	closed bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{items: list.New()}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *jobQueue) push(j *pdfJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items.PushBack(j)
	q.cond.Signal()
}

// pop blocks until a job is available or the queue is closed. The
// second return value is false only on close, which the caller must
// treat as fatal (§4.E state machine: "any state → channel closed →
// fatal").
func (q *jobQueue) pop() (*pdfJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.items.Len() == 0 {
		return nil, false
	}
	front := q.items.Front()
	q.items.Remove(front)
	return front.Value.(*pdfJob), true
}

func (q *jobQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// SingleWorker owns one long-lived chromedp browser process for the
// lifetime of the server, draining jobQueue on a dedicated goroutine.
// It is the default PDFEngine on every platform (§4.E single-worker
// mode), replacing a per-call subprocess shellout with a persistent
// chromedp allocator context (see DESIGN.md).
type SingleWorker struct {
	jobs         *jobQueue
	allocCancel  context.CancelFunc
	browserCtx   context.Context
	browserClose context.CancelFunc
}

// StartSingleWorker launches the worker goroutine and blocks until the
// underlying browser process has started. Engine init failure is fatal
// (§4.E: "engine init fail ⇒ fatal; process aborts at startup").
func StartSingleWorker() (*SingleWorker, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)

	browserCtx, browserClose := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		allocCancel()
		browserClose()
		return nil, fmt.Errorf("pdf engine init failed: %w", err)
	}

	w := &SingleWorker{
		jobs:         newJobQueue(),
		allocCancel:  allocCancel,
		browserCtx:   browserCtx,
		browserClose: browserClose,
	}
	go w.loop()
	return w, nil
}

func (w *SingleWorker) loop() {
	for {
		job, ok := w.jobs.pop()
		if !ok {
			log.Fatal("pdf worker: job queue closed, shutting down")
		}

		bytes, err := renderPDF(w.browserCtx, job.html)
		job.reply <- pdfResult{bytes: bytes, err: err}
	}
}

// Submit enqueues html and blocks until the worker replies (§4.F: the
// coordinator suspends on the worker's reply channel). Render failures
// are returned to the caller and do not kill the worker.
func (w *SingleWorker) Submit(html string) ([]byte, error) {
	job := &pdfJob{html: html, reply: make(chan pdfResult, 1)}
	w.jobs.push(job)
	result := <-job.reply
	return result.bytes, result.err
}

// Stop closes the job queue and tears down the browser process. Once the
// queue is empty, the worker's next pop reports closure and the worker
// calls log.Fatal, which ends the whole process, not just the worker
// goroutine (the fatal-on-close rule).
func (w *SingleWorker) Stop() {
	w.jobs.close()
	w.browserClose()
	w.allocCancel()
}

// renderPDF drives one chromedp tab through loading html verbatim and
// printing it to PDF with the engine parameters fixed by §4.E: title
// "Qr Slip" (carried by the template's own <title>), portrait
// orientation, zero margins, letting the document's own @page rule
// size each slip page.
func renderPDF(browserCtx context.Context, html string) ([]byte, error) {
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	var pdfBytes []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("wkhtmltopdf: failed to resolve frame: %w", err)
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithLandscape(false).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("wkhtmltopdf: print to pdf failed: %w", err)
			}
			pdfBytes = buf
			return nil
		}),
	)
	if err != nil {
		return nil, pdfErr(err.Error())
	}

	return pdfBytes, nil
}
