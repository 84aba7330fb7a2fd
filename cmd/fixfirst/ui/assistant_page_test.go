package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixfirst/internal/ai"
	"fixfirst/internal/types"
)

// endlessGateway streams chunks until emit refuses one, then reports the
// error it returned with.
type endlessGateway struct {
	returned chan error
}

func (g *endlessGateway) ClassifyImage(context.Context, []byte, string) (ai.Classification, error) {
	return ai.Classification{}, nil
}

func (g *endlessGateway) RepairBrief(context.Context, types.Report) (ai.Assessment, error) {
	return ai.Assessment{}, nil
}

func (g *endlessGateway) Online() bool { return false }

func (g *endlessGateway) StreamAnswer(ctx context.Context, _ []types.Report, _ string, emit func(string) error) error {
	for {
		if err := emit("chunk "); err != nil {
			g.returned <- err
			return err
		}
	}
}

func TestAssistantCancelUnblocksStream(t *testing.T) {
	gw := &endlessGateway{returned: make(chan error, 1)}
	m := NewAssistantPageModel(gw, DefaultStyles())

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.chunkCh = make(chan string) // unbuffered so the gateway blocks on every send
	m.errCh = make(chan error, 1)

	m.startStream(ctx, "how many open reports?")()

	// Consume one chunk so the goroutine is blocked mid-stream.
	msg := m.waitChunk()()
	_, ok := msg.(chunkMsg)
	require.True(t, ok)

	m.cancelStream()

	select {
	case err := <-gw.returned:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("stream goroutine stayed blocked after cancel")
	}

	// The closed chunk channel surfaces the failure to the update loop.
	assert.IsType(t, streamErrMsg{}, m.waitChunk()())
}
