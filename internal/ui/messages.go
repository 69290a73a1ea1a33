package ui

import (
	"github.com/unkn0wn-root/envdesk/internal/docstore"
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// storeEventMsg carries a docstore event onto the UI goroutine.
type storeEventMsg struct {
	evt docstore.Event
}

// promptRequestMsg asks the model to show a path prompt on behalf of a store
// operation that is blocked waiting for the answer.
type promptRequestMsg struct {
	req *promptRequest
}

// opDoneMsg reports the end of an asynchronous store operation.
type opDoneMsg struct {
	op     string
	docID  string
	status statusMsg
	err    error
	sync   *docstore.SyncResult
}
