package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/flatkit/config"
	"github.com/kbukum/flatkit/errors"
	"github.com/kbukum/flatkit/logger"
	"github.com/kbukum/flatkit/observability"
	"github.com/kbukum/flatkit/pipeline"
)

func nested(groups ...[]string) pipeline.DoubleEndedIterator[string] {
	outer := pipeline.FromSliceReversible(groups)
	return pipeline.FlattenReversible(outer, func(ctx context.Context, g []string) (pipeline.DoubleEndedIterator[string], error) {
		return pipeline.FromSliceReversible(g).Iter(ctx), nil
	}).Iter(context.Background())
}

type step struct {
	End   End
	Value string
	OK    bool
}

func run(t *testing.T, it pipeline.DoubleEndedIterator[string], opts Options) ([]step, Summary) {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	var steps []step
	summary, err := Run(context.Background(), it, opts, func(p Pull[string]) error {
		if p.Seq != len(steps) {
			t.Errorf("expected seq %d, got %d", len(steps), p.Seq)
		}
		steps = append(steps, step{p.End, p.Value, p.OK})
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return steps, summary
}

func TestRunModes(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []step
	}{
		{
			name: "forward",
			opts: Options{Mode: config.ModeForward},
			want: []step{{Front, "a", true}, {Front, "b", true}, {Front, "c", true}, {Front, "d", true}, {Front, "", false}},
		},
		{
			name: "default is forward",
			opts: Options{},
			want: []step{{Front, "a", true}, {Front, "b", true}, {Front, "c", true}, {Front, "d", true}, {Front, "", false}},
		},
		{
			name: "backward",
			opts: Options{Mode: config.ModeBackward},
			want: []step{{Back, "d", true}, {Back, "c", true}, {Back, "b", true}, {Back, "a", true}, {Back, "", false}},
		},
		{
			name: "interleave",
			opts: Options{Mode: config.ModeInterleave},
			want: []step{{Front, "a", true}, {Back, "d", true}, {Front, "b", true}, {Back, "c", true}, {Front, "", false}, {Back, "", false}},
		},
		{
			name: "script",
			opts: Options{Mode: config.ModeScript, Script: []End{Back, Back, Back, Front, Front, Back}},
			want: []step{{Back, "d", true}, {Back, "c", true}, {Back, "b", true}, {Front, "a", true}, {Front, "", false}, {Back, "", false}},
		},
		{
			name: "empty script",
			opts: Options{Mode: config.ModeScript},
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, summary := run(t, nested([]string{"a", "b"}, []string{"c", "d"}), tc.opts)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("pulls (-want +got):\n%s", diff)
			}
			if summary.Pulls != len(tc.want) {
				t.Errorf("expected %d pulls, got %d", len(tc.want), summary.Pulls)
			}
		})
	}
}

func TestRunSummary(t *testing.T) {
	_, summary := run(t, nested([]string{"a"}, nil, []string{"b"}), Options{Mode: config.ModeInterleave})
	if summary.Mode != config.ModeInterleave {
		t.Errorf("expected mode interleave, got %q", summary.Mode)
	}
	if summary.Yielded != 2 || summary.Empty() != 2 {
		t.Errorf("expected 2 yielded and 2 empty, got %+v", summary)
	}
}

func TestRunScriptPastTheEnd(t *testing.T) {
	got, _ := run(t, nested([]string{"x"}), Options{Mode: config.ModeScript, Script: []End{Front, Front, Back, Front}})
	want := []step{{Front, "x", true}, {Front, "", false}, {Back, "", false}, {Front, "", false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pulls (-want +got):\n%s", diff)
	}
}

func TestRunUnknownMode(t *testing.T) {
	_, err := Run(context.Background(), nested(), Options{Mode: "sideways", Logger: logger.Nop()}, func(Pull[string]) error { return nil })
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidInput {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRunReturnsPullError(t *testing.T) {
	boom := stderrors.New("boom")
	outer := pipeline.FromSliceReversible([]int{1, 2})
	it := pipeline.FlattenReversible(outer, func(ctx context.Context, n int) (pipeline.DoubleEndedIterator[string], error) {
		if n == 2 {
			return nil, boom
		}
		return pipeline.FromSliceReversible([]string{"one"}).Iter(ctx), nil
	}).Iter(context.Background())

	var emitted int
	summary, err := Run(context.Background(), it, Options{Logger: logger.Nop()}, func(Pull[string]) error {
		emitted++
		return nil
	})
	if err != boom {
		t.Fatalf("expected boom unchanged, got %v", err)
	}
	if emitted != 1 || summary.Yielded != 1 {
		t.Errorf("expected one value before the error, got emitted=%d summary=%+v", emitted, summary)
	}
}

func TestRunReturnsEmitError(t *testing.T) {
	stop := stderrors.New("stop")
	_, err := Run(context.Background(), nested([]string{"a", "b"}), Options{Logger: logger.Nop()}, func(Pull[string]) error {
		return stop
	})
	if err != stop {
		t.Fatalf("expected stop, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, nested([]string{"a"}), Options{Logger: logger.Nop()}, func(Pull[string]) error { return nil })
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunLogsPulls(t *testing.T) {
	var buf bytes.Buffer
	cfg := &logger.Config{Level: "debug", Format: "json"}
	log := logger.NewWithWriter(cfg, "test", &buf)

	run(t, nested([]string{"a"}), Options{Mode: config.ModeForward, Logger: log})

	var entries []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 2 pull entries and a summary, got %d: %v", len(entries), entries)
	}
	if entries[0]["message"] != "pull" || entries[0][logger.FieldValue] != "a" || entries[0][logger.FieldEnd] != "front" {
		t.Errorf("unexpected first entry %v", entries[0])
	}
	if entries[1][logger.FieldEmpty] != true {
		t.Errorf("expected empty pull, got %v", entries[1])
	}
	last := entries[2]
	if last["level"] != "info" || last[logger.FieldYielded] != float64(1) || last[logger.FieldPulls] != float64(2) {
		t.Errorf("unexpected summary entry %v", last)
	}
}

func TestRunRecordsTelemetry(t *testing.T) {
	prev := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())
	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	_, summary := run(t, nested([]string{"a", "b"}, []string{"c", "d"}), Options{Mode: config.ModeInterleave, Metrics: metrics})

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != observability.SpanRun {
		t.Fatalf("expected one %s span, got %v", observability.SpanRun, spans)
	}
	attrs := map[string]int64{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	if attrs[observability.AttrPulls] != int64(summary.Pulls) || attrs[observability.AttrYielded] != 4 {
		t.Errorf("unexpected span attributes %v", spans[0].Attributes())
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var pulls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && m.Name == "flatten.pull.total" {
				for _, dp := range sum.DataPoints {
					pulls += dp.Value
				}
			}
		}
	}
	if pulls != int64(summary.Pulls) {
		t.Errorf("expected %d pulls recorded, got %d", summary.Pulls, pulls)
	}
}
