package integration

import (
	"context"
	"io"
	"testing"
	"time"

	"pfmi3dsc/internal/app"
)

func TestCtrlC_MidAlign_Exit130(t *testing.T) {
	cfg := setup(t, 1)
	t.Setenv("FAKE_SLEEP", "5")

	ctx, cancel := context.WithCancel(context.Background())
	// Cancel once the aligner is underway.
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	code := app.RunContext(ctx, []string{"--config", cfg, "run", "Q", "-w", t.TempDir()}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("cancel did not stop the aligner")
	}
}
