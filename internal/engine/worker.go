package engine

import (
	"fmt"
	"sync"

	"github.com/notnil/chess"
	"go.uber.org/zap"
)

// Result is delivered on a request's channel when its search completes.
// Exactly one of SearchResult and Err is set.
type Result struct {
	SearchResult *SearchResult
	Err          error
}

// Request is the handle for one in-flight best-move search. The caller
// receives the Result from Result(); after Cancel() nothing is ever
// delivered, even if the underlying computation finishes later.
type Request struct {
	mu        sync.Mutex
	cancelled bool
	delivered bool
	searcher  *Searcher
	result    chan Result
}

func newRequest() *Request {
	return &Request{result: make(chan Result, 1)}
}

// Result returns the channel the search result is delivered on. At most
// one Result is ever sent; a cancelled request sends nothing.
func (r *Request) Result() <-chan Result {
	return r.result
}

// Cancel abandons the request. If the search has not started it never
// will; if it is running it is stopped at the next root-move checkpoint.
// Cancelling a completed request is a no-op.
func (r *Request) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled || r.delivered {
		return
	}
	r.cancelled = true
	if r.searcher != nil {
		r.searcher.Stop()
	}
}

// Cancelled reports whether the request has been cancelled.
func (r *Request) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

// attach binds the running searcher so Cancel can stop it mid-search.
// Returns false if the request was cancelled before the search started.
func (r *Request) attach(s *Searcher) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled {
		return false
	}
	r.searcher = s
	return true
}

// deliver hands the result to the caller unless the request was cancelled.
// A cancelled request's result is discarded, not queued.
func (r *Request) deliver(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled || r.delivered {
		return
	}
	r.delivered = true
	r.result <- res
}

// Driver runs the embedded searcher off the caller's goroutine. At most
// one search is active per driver: a new request supersedes and cancels
// any unfinished prior one. The current-request pointer is the only
// mutable state shared across the concurrency boundary.
type Driver struct {
	mu      sync.Mutex
	current *Request
	log     *zap.SugaredLogger
}

// NewDriver creates a search driver. The logger may be nil.
func NewDriver(log *zap.SugaredLogger) *Driver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Driver{log: log}
}

// RequestBestMove starts a search for the position at the given depth and
// returns immediately with the request handle.
func (d *Driver) RequestBestMove(pos *chess.Position, depth int) *Request {
	req := d.supersede()
	go d.run(req, pos, depth)
	return req
}

// Cancel abandons the in-flight request, if any.
func (d *Driver) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		d.current.Cancel()
	}
}

// supersede registers a fresh request as current, cancelling the prior one.
func (d *Driver) supersede() *Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		d.current.Cancel()
	}
	d.current = newRequest()
	return d.current
}

// run executes one embedded search. Errors and panics inside the searcher
// are captured and reported as a failed Result, never let escape.
func (d *Driver) run(req *Request, pos *chess.Position, depth int) {
	defer d.capturePanic(req)

	searcher := NewSearcher()
	if !req.attach(searcher) {
		return
	}

	res, err := searcher.Search(pos, depth)
	if err != nil {
		d.log.Warnw("embedded search failed", "error", err)
		req.deliver(Result{Err: err})
		return
	}
	req.deliver(Result{SearchResult: res})
}

func (d *Driver) capturePanic(req *Request) {
	if p := recover(); p != nil {
		d.log.Errorw("search panicked", "panic", p)
		req.deliver(Result{Err: fmt.Errorf("engine: search panic: %v", p)})
	}
}
