package mint

import (
	"context"
	"testing"

	"github.com/hashgraph-online/asset-publisher-go/pkg/chain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromCountsBatchOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewProm("assetpub", registry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	base := successfulChain(9)
	connection := &scriptedConnection{finalize: func(call chain.Call) chain.StatusUpdate {
		if call.Kind == chain.CallMintItem && call.ItemID == 1 {
			return chain.StatusUpdate{DispatchError: "TransactionFailed"}
		}
		return base(call)
	}}
	harness := newHarness(t, connection, metrics)

	if _, err := harness.orchestrator.MintBatch(context.Background(), 9, BatchRequest{DescriptorDir: writeBatch(t, 3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(metrics.itemsCompleted.WithLabelValues("succeeded")); got != 2 {
		t.Fatalf("expected 2 succeeded, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.itemsCompleted.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.phaseFailures.WithLabelValues(string(PhaseSubmission))); got != 1 {
		t.Fatalf("expected 1 submission failure, got %v", got)
	}
	if got := testutil.CollectAndCount(metrics.itemDuration); got != 1 {
		t.Fatalf("expected histogram to be collected, got %d", got)
	}
}

func TestNewPromRejectsDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewProm("assetpub", registry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewProm("assetpub", registry); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestNoopSatisfiesMetrics(t *testing.T) {
	var metrics Metrics = Noop{}
	metrics.IncItemCompleted("succeeded")
	metrics.IncPhaseFailed("pinning")
	metrics.IncReconciled("present")
	metrics.ObserveItemDuration(1)
}

type recordingMetrics struct {
	completed map[string]int
	failed    map[string]int
	durations int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{completed: map[string]int{}, failed: map[string]int{}}
}

func (m *recordingMetrics) IncItemCompleted(status string) { m.completed[status]++ }
func (m *recordingMetrics) IncPhaseFailed(phase string)    { m.failed[phase]++ }
func (m *recordingMetrics) IncReconciled(string)           {}
func (m *recordingMetrics) ObserveItemDuration(float64)    { m.durations++ }

func TestLinkingFailuresAreTimedAndCountedOnce(t *testing.T) {
	metrics := newRecordingMetrics()
	harness := newHarness(t, &scriptedConnection{finalize: successfulChain(1)}, metrics)

	dir := t.TempDir()
	writeFile(t, dir, "0.json", `{"name":"orphan"}`)
	if _, err := harness.orchestrator.MintBatch(context.Background(), 1, BatchRequest{DescriptorDir: dir}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	asset := writeFile(t, t.TempDir(), "lonely.png", "png")
	if _, err := harness.orchestrator.MintItem(context.Background(), ItemRequest{CollectionID: 1, AssetPath: asset}); err == nil {
		t.Fatal("expected ambiguous input error")
	}

	if metrics.completed["failed"] != 2 || metrics.completed["succeeded"] != 0 {
		t.Fatalf("unexpected completions: %v", metrics.completed)
	}
	if metrics.failed[string(PhaseLinking)] != 2 {
		t.Fatalf("unexpected phase failures: %v", metrics.failed)
	}
	if metrics.durations != 2 {
		t.Fatalf("expected 2 duration samples, got %d", metrics.durations)
	}
}
