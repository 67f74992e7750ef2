package engine

import (
	"errors"

	"github.com/notnil/chess"
	"go.uber.org/zap"
)

// External is a strong external engine (e.g. a Stockfish process).
// Available is consulted once per move request, never cached across the
// session: the process can die mid-game.
type External interface {
	Available() bool
	BestMove(pos *chess.Position, depth int) (*SearchResult, error)
}

// Selector routes each best-move request to the external engine when one
// is available and falls back to the embedded driver when it is not, or
// when it fails. A failure followed by a successful fallback is logged
// and swallowed.
type Selector struct {
	external External // may be nil
	driver   *Driver
	log      *zap.SugaredLogger
}

// NewSelector creates a selector. external may be nil when no external
// engine was found; the logger may be nil.
func NewSelector(external External, driver *Driver, log *zap.SugaredLogger) *Selector {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Selector{external: external, driver: driver, log: log}
}

// RequestBestMove picks an engine for this one request and returns the
// handle immediately. The external path reuses the driver's request
// mechanics, so supersession and cancellation behave identically on
// both paths.
func (s *Selector) RequestBestMove(pos *chess.Position, depth int) *Request {
	if s.external == nil || !s.external.Available() {
		return s.driver.RequestBestMove(pos, depth)
	}

	req := s.driver.supersede()
	go func() {
		defer s.driver.capturePanic(req)
		if req.Cancelled() {
			return
		}
		res, err := s.external.BestMove(pos, depth)
		if err == nil && res != nil {
			req.deliver(Result{SearchResult: res})
			return
		}
		if err == nil {
			err = errors.New("external engine returned no result")
		}
		s.log.Warnw("external engine failed, falling back to embedded search", "error", err)
		s.driver.run(req, pos, depth)
	}()
	return req
}

// Cancel abandons the in-flight request, if any.
func (s *Selector) Cancel() {
	s.driver.Cancel()
}
