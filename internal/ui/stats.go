package ui

import "sync/atomic"

type Stats struct {
	Checked atomic.Int64
	Updated atomic.Int64
	Failed  atomic.Int64
}
