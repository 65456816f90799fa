package commands

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	w.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestPrintRunResultRankOrder(t *testing.T) {
	now := time.Now()
	result := &contracts.RunResult{
		StartedAt:  now,
		FinishedAt: now.Add(120 * time.Millisecond),
		Topics: []contracts.TopicResult{
			{Topic: contracts.Topic{Name: "脱毛サロン"}, Score: contracts.CompositeScore{TopicName: "脱毛サロン", Total: 40, Rank: 3}},
			{Topic: contracts.Topic{Name: "ペット保険"}, Score: contracts.CompositeScore{TopicName: "ペット保険", Total: 70, Rank: 1}},
			{Topic: contracts.Topic{Name: "格安SIM"}, Score: contracts.CompositeScore{TopicName: "格安SIM", Total: 55, Rank: 2}},
		},
	}

	out := captureStdout(t, func() { printRunResult(7, result) })

	assert.Contains(t, out, "run #7")

	// Rows come out in rank order regardless of input order
	first := strings.Index(out, "ペット保険")
	second := strings.Index(out, "格安SIM")
	third := strings.Index(out, "脱毛サロン")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestPrintRunResultEmpty(t *testing.T) {
	result := &contracts.RunResult{Topics: []contracts.TopicResult{}}

	out := captureStdout(t, func() { printRunResult(0, result) })

	assert.Contains(t, out, "No analyzable genres")
}
