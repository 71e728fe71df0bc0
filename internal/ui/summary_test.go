package ui

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrintSummary_AllDone(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Summary{Chapters: 2, Units: 5, Images: 5, Bytes: 2048, Rounds: 1, Attempts: 5, Elapsed: time.Second}, nil)

	out := buf.String()
	assert.Contains(t, out, "Pages:    5/5")
	assert.Contains(t, out, "2.00 KB")
	assert.Contains(t, out, "All done.")
}

func TestPrintSummary_ListsFailures(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Summary{Units: 2, Images: 1}, []FailedRow{
		{Chapter: "Dragon Ball Chou 3", Page: "7", Kind: "network", Reason: "fetch http://cdn/x: timeout"},
	})

	out := buf.String()
	assert.Contains(t, out, "1 pages failed permanently")
	assert.Contains(t, out, "Dragon Ball Chou 3")
	assert.Contains(t, out, "network")
	assert.NotContains(t, out, "All done.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b", truncate(" a \n b ", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestProgressHandle_CountsFailures(t *testing.T) {
	pm := NewProgressManagerTo(io.Discard)
	h := pm.Register("Round 1", 3)

	h.Add(true, 10)
	h.Add(false, 0)
	h.Add(true, 5)
	h.MarkDone()
	pm.Close()

	assert.Equal(t, int64(1), h.Failed())
	assert.Equal(t, int64(15), h.bytes.Load())
}
