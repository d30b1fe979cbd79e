package sampler

import "errors"

var (
	// ErrExhausted is returned by SelectNext when no selectable partition
	// remains. The caller must abort its run; there is no degraded result.
	ErrExhausted = errors.New("no selectable partition left")

	// ErrNoSelection is returned by Adapt when there is no outstanding
	// selection to attach the sample to.
	ErrNoSelection = errors.New("feedback without outstanding selection")

	// ErrPendingSelection is returned by SelectNext when the previous
	// selection has not received feedback yet.
	ErrPendingSelection = errors.New("selection already outstanding")
)
