package ui

import "sync/atomic"

type Stats struct {
	TotalImages atomic.Int64
	TotalBytes  atomic.Int64
	Attempts    atomic.Int64
	Failures    atomic.Int64
}
