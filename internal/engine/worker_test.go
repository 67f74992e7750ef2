package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/notnil/chess"
)

func TestDriverDeliversResult(t *testing.T) {
	driver := NewDriver(nil)
	req := driver.RequestBestMove(chess.NewGame().Position(), 1)

	select {
	case res := <-req.Result():
		if res.Err != nil {
			t.Fatalf("search failed: %v", res.Err)
		}
		if res.SearchResult.Move == nil {
			t.Error("no move for the starting position")
		}
	case <-time.After(30 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestDriverReportsIllegalPosition(t *testing.T) {
	driver := NewDriver(nil)
	req := driver.RequestBestMove(nil, 1)

	select {
	case res := <-req.Result():
		var illegal *IllegalPositionError
		if !errors.As(res.Err, &illegal) {
			t.Errorf("want IllegalPositionError, got %v", res.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no result delivered")
	}
}

func TestCancelledRequestNeverDelivers(t *testing.T) {
	// The law holds even when the computation finishes after the
	// cancellation: the result is discarded, not queued.
	req := newRequest()
	req.Cancel()

	req.deliver(Result{SearchResult: &SearchResult{}})

	select {
	case <-req.Result():
		t.Fatal("cancelled request delivered a result")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelBeforeStartSkipsSearch(t *testing.T) {
	req := newRequest()
	req.Cancel()

	if req.attach(NewSearcher()) {
		t.Error("attach must refuse a cancelled request")
	}
	if !req.Cancelled() {
		t.Error("request should report cancelled")
	}
}

func TestCancelStopsRunningSearch(t *testing.T) {
	req := newRequest()
	searcher := NewSearcher()
	if !req.attach(searcher) {
		t.Fatal("attach failed on fresh request")
	}

	req.Cancel()

	if _, err := searcher.Search(chess.NewGame().Position(), 3); !errors.Is(err, ErrCancelled) {
		t.Errorf("attached searcher should observe the stop flag, got %v", err)
	}
}

func TestCancelAfterDeliveryIsNoop(t *testing.T) {
	req := newRequest()
	req.deliver(Result{SearchResult: &SearchResult{Score: 42}})
	req.Cancel()

	select {
	case res := <-req.Result():
		if res.SearchResult.Score != 42 {
			t.Errorf("wrong result delivered: %+v", res)
		}
	default:
		t.Fatal("delivered result lost")
	}
	if req.Cancelled() {
		t.Error("cancel after delivery must not mark the request cancelled")
	}
}

func TestNewRequestSupersedesPrior(t *testing.T) {
	driver := NewDriver(nil)

	// Deep enough that the first search cannot finish before the second
	// request supersedes it.
	first := driver.RequestBestMove(chess.NewGame().Position(), 6)
	second := driver.RequestBestMove(chess.NewGame().Position(), 1)

	select {
	case res := <-second.Result():
		if res.Err != nil {
			t.Fatalf("superseding request failed: %v", res.Err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("superseding request never completed")
	}

	if !first.Cancelled() {
		t.Error("prior request should have been cancelled")
	}
	select {
	case <-first.Result():
		t.Error("superseded request delivered a result")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRequestDeliversExactlyOnce(t *testing.T) {
	req := newRequest()
	req.deliver(Result{SearchResult: &SearchResult{Score: 1}})
	req.deliver(Result{SearchResult: &SearchResult{Score: 2}})

	res := <-req.Result()
	if res.SearchResult.Score != 1 {
		t.Errorf("want first result, got score %d", res.SearchResult.Score)
	}
	select {
	case <-req.Result():
		t.Error("second result delivered")
	default:
	}
}
