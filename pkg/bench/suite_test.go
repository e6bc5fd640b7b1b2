package bench

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	benchErrors "github.com/AndreyAkinshin/stagebench/internal/errors"
	"github.com/AndreyAkinshin/stagebench/internal/output"
	"github.com/AndreyAkinshin/stagebench/internal/persist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testSuite struct {
	*Suite
	stdout      *bytes.Buffer
	charts      *persist.Memory
	transcripts *persist.Memory
}

func newTestSuite(opts ...Option) *testSuite {
	ts := &testSuite{
		stdout:      &bytes.Buffer{},
		charts:      persist.NewMemory(),
		transcripts: persist.NewMemory(),
	}
	opts = append([]Option{
		WithWriter(output.NewWithWriters(ts.stdout, &bytes.Buffer{}, false)),
		WithChartStore(ts.charts),
		WithTranscriptStore(ts.transcripts),
	}, opts...)
	ts.Suite = New(opts...)
	return ts
}

func failing(msg string) Hook {
	return func(context.Context) error { return errors.New(msg) }
}

func counting(n *atomic.Int32) Hook {
	return func(context.Context) error {
		n.Add(1)
		return nil
	}
}

func TestRun_SingleSyncTest(t *testing.T) {
	s := newTestSuite()
	if err := s.RegisterTests(Test(addOne)); err != nil {
		t.Fatal(err)
	}

	if !s.Run(context.Background(), "results.txt") {
		t.Fatalf("Run() = false, output:\n%s", s.stdout)
	}
	if s.State() != StateReported {
		t.Errorf("State() = %v, want %v", s.State(), StateReported)
	}

	out := s.stdout.String()
	if !strings.HasPrefix(out, "Working...\n") {
		t.Errorf("output should start with Working...:\n%s", out)
	}
	if !strings.Contains(out, "Exported results to file 'results.txt'.") {
		t.Errorf("missing export message:\n%s", out)
	}

	transcript, ok := s.transcripts.Get("results.txt")
	if !ok {
		t.Fatal("transcript not written")
	}
	if !strings.HasPrefix(transcript, "Function addOne\nSucceeded in ") {
		t.Errorf("transcript = %q", transcript)
	}
	if strings.Contains(transcript, "async") {
		t.Error("sync test reported as async")
	}
}

func TestRun_NoOutputPath(t *testing.T) {
	s := newTestSuite()
	_ = s.RegisterTests(Test(addOne))

	if !s.Run(context.Background(), "") {
		t.Fatal("Run() = false")
	}
	if names := s.transcripts.Names(); len(names) != 0 {
		t.Errorf("transcripts written: %v", names)
	}
}

func TestRun_NoTests(t *testing.T) {
	s := newTestSuite()
	var setups atomic.Int32
	s.RegisterGlobalSetup(counting(&setups))

	if s.Run(context.Background(), "") {
		t.Error("Run() = true, want false")
	}
	if got := s.stdout.String(); got != "No tests to run.\n" {
		t.Errorf("output = %q", got)
	}
	if setups.Load() != 0 {
		t.Error("global setup ran without tests")
	}
	if s.State() != StateAborted {
		t.Errorf("State() = %v, want %v", s.State(), StateAborted)
	}

	_, err := s.Execute(context.Background())
	if !errors.Is(err, ErrNoTests) {
		t.Errorf("Execute() error = %v, want ErrNoTests", err)
	}
}

func TestRun_GlobalSetupFailure(t *testing.T) {
	s := newTestSuite()
	var ran, teardowns atomic.Int32
	s.RegisterGlobalSetup(failing("db down"))
	s.RegisterGlobalTeardown(counting(&teardowns))
	_ = s.RegisterTests(Test(func(context.Context) Result {
		ran.Add(1)
		return Done()
	}))

	if s.Run(context.Background(), "out.txt") {
		t.Fatal("Run() = true, want false")
	}
	want := "Failed. Stage 'Run Before All Tests' failed with message:\ndb down\n\nAborting."
	if !strings.Contains(s.stdout.String(), want) {
		t.Errorf("output missing abort message:\n%s", s.stdout)
	}
	if ran.Load() != 0 {
		t.Error("tests ran after global setup failed")
	}
	if teardowns.Load() != 0 {
		t.Error("global teardown ran after global setup failed")
	}
	if len(s.transcripts.Names()) != 0 {
		t.Error("transcript written for an aborted run")
	}
	if s.State() != StateAborted {
		t.Errorf("State() = %v, want %v", s.State(), StateAborted)
	}
}

func TestRun_GlobalTeardownFailure(t *testing.T) {
	s := newTestSuite()
	var ran atomic.Int32
	s.RegisterGlobalTeardown(failing("cleanup failed"))
	_ = s.RegisterTests(Test(func(context.Context) Result {
		ran.Add(1)
		return Done()
	}))

	outcome, err := s.Execute(context.Background())
	if err == nil {
		t.Fatal("Execute() error = nil, want stage error")
	}
	if outcome != nil {
		t.Error("outcome kept for an aborted run")
	}
	be, ok := benchErrors.IsStage(err)
	if !ok || be.Stage != "Run After All Tests" {
		t.Errorf("error = %v, want a 'Run After All Tests' stage error", err)
	}
	if ran.Load() != 1 {
		t.Errorf("test ran %d times, want 1", ran.Load())
	}
	if strings.Contains(s.stdout.String(), "Function ") {
		t.Error("report printed for an aborted run")
	}
	if !strings.Contains(s.stdout.String(), "Stage 'Run After All Tests' failed with message:\ncleanup failed") {
		t.Errorf("missing abort message:\n%s", s.stdout)
	}
}

func TestRun_SetupFailureDiscardsResults(t *testing.T) {
	s := newTestSuite()
	var ran atomic.Int32
	s.RegisterSetup(failing("no fixture"))
	_ = s.RegisterTests(Test(func(context.Context) Result {
		ran.Add(1)
		return Done()
	}))

	_, err := s.Execute(context.Background())
	be, ok := benchErrors.IsStage(err)
	if !ok || be.Stage != "Run Before Test" {
		t.Fatalf("error = %v, want a 'Run Before Test' stage error", err)
	}
	if ran.Load() != 0 {
		t.Error("test ran after its setup failed")
	}
	if n := strings.Count(s.stdout.String(), "Stage 'Run Before Test' failed"); n != 1 {
		t.Errorf("abort message printed %d times, want 1:\n%s", n, s.stdout)
	}
}

func TestRun_TeardownFailureOverridesResult(t *testing.T) {
	s := newTestSuite()
	var ran atomic.Int32
	s.RegisterTeardown(failing("leak detected"))
	_ = s.RegisterTests(Test(func(context.Context) Result {
		ran.Add(1)
		return Done()
	}))

	if s.Run(context.Background(), "") {
		t.Fatal("Run() = true, want false")
	}
	if ran.Load() != 1 {
		t.Errorf("test ran %d times, want 1", ran.Load())
	}
	if !strings.Contains(s.stdout.String(), "Stage 'Run After Test' failed with message:\nleak detected") {
		t.Errorf("missing abort message:\n%s", s.stdout)
	}
}

func TestRun_OneFailingHookDiscardsEverything(t *testing.T) {
	s := newTestSuite()
	var calls atomic.Int32
	s.RegisterSetup(func(context.Context) error {
		if calls.Add(1) == 3 {
			return errors.New("third setup failed")
		}
		return nil
	})
	_ = s.RegisterTests(Test(addOne, WithExecutionCount(5)))

	outcome, err := s.Execute(context.Background())
	if err == nil || outcome != nil {
		t.Fatalf("Execute() = %v, %v, want aborted run", outcome, err)
	}
}

func TestExecute_Classification(t *testing.T) {
	s := newTestSuite()
	err := s.RegisterTests(
		Test(addOne, WithName("sync ok")),
		Test(func(context.Context) Result { return Fail(errors.New("bad")) }, WithName("sync fail")),
		Test(func(context.Context) Result { panic("boom") }, WithName("sync panic")),
		Test(Async(func() error { return nil }), WithName("async ok")),
		Test(Async(func() error { return errors.New("rejected") }), WithName("async fail")),
		Test(Async(func() error { panic("async boom") }), WithName("async panic")),
		Test(func(context.Context) Result { return Await(nil) }, WithName("await nil")),
		Test(Sync(func() error { return errors.New("plain") }), WithName("sync adapter fail")),
	)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := s.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	tests := []struct {
		name      string
		async     bool
		completed bool
	}{
		{"sync ok", false, true},
		{"sync fail", false, false},
		{"sync panic", false, false},
		{"async ok", true, true},
		{"async fail", true, false},
		{"async panic", true, false},
		{"await nil", true, true},
		{"sync adapter fail", false, false},
	}
	if len(outcome.Records) != len(tests) {
		t.Fatalf("len(Records) = %d, want %d", len(outcome.Records), len(tests))
	}
	for i, tt := range tests {
		rec := outcome.Records[i]
		if rec.Meta.Name() != tt.name {
			t.Errorf("Records[%d] = %q, want %q (registration order)", i, rec.Meta.Name(), tt.name)
			continue
		}
		if rec.Async != tt.async || rec.Completed != tt.completed {
			t.Errorf("%s: async=%v completed=%v, want async=%v completed=%v",
				tt.name, rec.Async, rec.Completed, tt.async, tt.completed)
		}
		if !tt.completed && rec.Err == nil {
			t.Errorf("%s: failure cause not recorded", tt.name)
		}
	}
}

func TestExecute_ElapsedIncludesAwait(t *testing.T) {
	s := newTestSuite()
	_ = s.RegisterTests(TestAsync(func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}))

	outcome, err := s.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := outcome.Records[0].Elapsed; got < 20*time.Millisecond {
		t.Errorf("Elapsed = %v, want >= 20ms", got)
	}
}

func TestExecute_RepeatedTest(t *testing.T) {
	s := newTestSuite()
	var n atomic.Int32
	_ = s.RegisterTests(Test(func(context.Context) Result {
		if n.Add(1) == 2 {
			return Fail(errors.New("flaky"))
		}
		return Done()
	}, WithName("flaky"), WithExecutionCount(3), WithGroup("g")))

	outcome, err := s.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(outcome.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(outcome.Records))
	}
	meta := outcome.Records[0].Meta
	for _, rec := range outcome.Records {
		if rec.Meta != meta {
			t.Error("repeated executions must share metadata")
		}
	}
	rep, ok := outcome.Repetitions.Lookup(meta)
	if !ok {
		t.Fatal("no repetition aggregate")
	}
	if len(rep.Runs) != 3 || rep.Completed != 2 {
		t.Errorf("aggregate = %d runs, %d completed, want 3, 2", len(rep.Runs), rep.Completed)
	}

	series, ok := outcome.Groups.Get("g")
	if !ok || len(series.Bars) != 1 {
		t.Fatalf("group g = %+v, want one bar", series)
	}
	if series.Bars[0].State != Mixed {
		t.Errorf("bar state = %v, want %v", series.Bars[0].State, Mixed)
	}
	if _, ok := s.charts.Get("g.svg"); !ok {
		t.Error("chart g.svg not written")
	}
	if n := strings.Count(outcome.Transcript, "Function flaky\n"); n != 1 {
		t.Errorf("repeated test reported %d times, want 1", n)
	}
}

func TestRun_ChartStyle(t *testing.T) {
	style := DefaultChartStyle
	style.Failure = "crimson"
	s := newTestSuite(WithChartStyle(style))
	if err := s.RegisterTests(TestSync(func() error { return errors.New("x") }, WithName("broken"), WithGroup("g"))); err != nil {
		t.Fatal(err)
	}

	if !s.Run(context.Background(), "") {
		t.Fatalf("Run() = false, output:\n%s", s.stdout)
	}
	svg, ok := s.charts.Get("g.svg")
	if !ok {
		t.Fatal("chart g.svg not written")
	}
	if !strings.Contains(svg, "crimson") || strings.Contains(svg, DefaultChartStyle.Failure) {
		t.Errorf("chart does not use the custom failure color:\n%s", svg)
	}
}

func TestExecute_TestsRunConcurrently(t *testing.T) {
	s := newTestSuite()
	var wg sync.WaitGroup
	wg.Add(2)
	rendezvous := func(context.Context) Result {
		wg.Done()
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return Done()
		case <-time.After(2 * time.Second):
			return Fail(errors.New("tests did not overlap"))
		}
	}
	_ = s.RegisterTests(Test(rendezvous, WithName("a")), Test(rendezvous, WithName("b")))

	outcome, err := s.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range outcome.Records {
		if !rec.Completed {
			t.Errorf("%s: %v", rec.Meta.Name(), rec.Err)
		}
	}
}

func TestExecute_FailingHookDoesNotWaitForSiblings(t *testing.T) {
	s := newTestSuite()
	release := make(chan struct{})
	finished := make(chan struct{})
	s.RegisterGlobalSetup(
		failing("fast failure"),
		func(context.Context) error {
			defer close(finished)
			<-release
			return nil
		},
	)
	_ = s.RegisterTests(Test(addOne))

	if s.Run(context.Background(), "") {
		t.Fatal("Run() = true, want false")
	}
	select {
	case <-finished:
		t.Fatal("sibling hook finished before it was released")
	default:
	}
	if !strings.Contains(s.stdout.String(), "failed with message:\nfast failure") {
		t.Errorf("missing abort message:\n%s", s.stdout)
	}

	// The sibling was never cancelled and still runs to completion.
	close(release)
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("sibling hook never finished")
	}
}

func TestExecute_FailingTestStageDoesNotWaitForOtherTests(t *testing.T) {
	s := newTestSuite()
	release := make(chan struct{})
	teardowns := make(chan struct{}, 2)
	s.RegisterTeardown(func(context.Context) error {
		teardowns <- struct{}{}
		return errors.New("leak detected")
	})
	_ = s.RegisterTests(
		Test(addOne, WithName("fast")),
		TestSync(func() error {
			<-release
			return nil
		}, WithName("blocked")),
	)

	outcome, err := s.Execute(context.Background())
	be, ok := benchErrors.IsStage(err)
	if !ok || be.Stage != "Run After Test" {
		t.Fatalf("Execute() error = %v, want a 'Run After Test' stage error", err)
	}
	if outcome != nil {
		t.Error("outcome kept for an aborted run")
	}
	if s.State() != StateAborted {
		t.Errorf("State() = %v, want %v", s.State(), StateAborted)
	}

	close(release)
	for range 2 {
		select {
		case <-teardowns:
		case <-time.After(5 * time.Second):
			t.Fatal("blocked test never reached its teardown")
		}
	}
}

func TestExecute_PanickingHookFailsStage(t *testing.T) {
	s := newTestSuite()
	s.RegisterGlobalSetup(func(context.Context) error { panic("hook panic") })
	_ = s.RegisterTests(Test(addOne))

	_, err := s.Execute(context.Background())
	be, ok := benchErrors.IsStage(err)
	if !ok || be.Stage != "Run Before All Tests" {
		t.Fatalf("error = %v, want a global setup stage error", err)
	}
	if !strings.Contains(s.stdout.String(), "panic: hook panic") {
		t.Errorf("abort message should carry the panic:\n%s", s.stdout)
	}
}

func TestExecute_NilHooksAreSkipped(t *testing.T) {
	s := newTestSuite()
	s.RegisterSetup(nil)
	_ = s.RegisterTests(Test(addOne))

	if _, err := s.Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
}

func TestRegisterTests_LastCallWins(t *testing.T) {
	s := newTestSuite()
	_ = s.RegisterTests(Test(addOne, WithName("first")), Test(addOne, WithName("second")))
	_ = s.RegisterTests(Test(addOne, WithName("third"), WithExecutionCount(2)))

	if s.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", s.Pending())
	}
	outcome, err := s.Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for _, rec := range outcome.Records {
		if rec.Meta.Name() != "third" {
			t.Errorf("unexpected record %q", rec.Meta.Name())
		}
	}
}

func TestRegisterTests_FailureKeepsPrevious(t *testing.T) {
	s := newTestSuite()
	_ = s.RegisterTests(Test(addOne))

	err := s.RegisterTests(Test(addOne), Test(addOne, WithGroup("aux")))
	if err == nil {
		t.Fatal("RegisterTests() error = nil, want error")
	}
	if benchErrors.GetExitCode(err) != benchErrors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", benchErrors.GetExitCode(err), benchErrors.ExitConfigError)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestRegisterHooks_LastCallWins(t *testing.T) {
	s := newTestSuite()
	var first, second atomic.Int32
	s.RegisterSetup(counting(&first))
	s.RegisterSetup(counting(&second))
	_ = s.RegisterTests(Test(addOne, WithExecutionCount(3)))

	if !s.Run(context.Background(), "") {
		t.Fatal("Run() = false")
	}
	if first.Load() != 0 || second.Load() != 3 {
		t.Errorf("setup calls = %d, %d, want 0, 3", first.Load(), second.Load())
	}
}

func TestHookFunc(t *testing.T) {
	s := newTestSuite()
	var setups atomic.Int32
	s.RegisterSetup(HookFunc(func() error {
		setups.Add(1)
		return nil
	}))
	s.RegisterGlobalTeardown(HookFunc(func() error { return errors.New("disk full") }))
	_ = s.RegisterTests(Test(addOne, WithExecutionCount(2)))

	_, err := s.Execute(context.Background())
	be, ok := benchErrors.IsStage(err)
	if !ok || be.Stage != "Run After All Tests" || be.Message != "disk full" {
		t.Errorf("Execute() error = %v, want the global teardown failure", err)
	}
	if setups.Load() != 2 {
		t.Errorf("setup calls = %d, want 2", setups.Load())
	}
}

func TestReset(t *testing.T) {
	s := newTestSuite()
	var setups atomic.Int32
	s.RegisterGlobalSetup(counting(&setups))
	_ = s.RegisterTests(Test(addOne))
	s.Reset()

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	_ = s.RegisterTests(Test(addOne))
	if !s.Run(context.Background(), "") {
		t.Fatal("Run() = false")
	}
	if setups.Load() != 0 {
		t.Error("global setup survived Reset")
	}
}

type fakeMetrics struct {
	mu       sync.Mutex
	records  int
	stages   []string
	finished []bool
}

func (f *fakeMetrics) ObserveRecord(Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
}

func (f *fakeMetrics) StageFailed(stage string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stages = append(f.stages, stage)
}

func (f *fakeMetrics) RunFinished(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, ok)
}

func TestRun_Metrics(t *testing.T) {
	m := &fakeMetrics{}
	s := newTestSuite(WithMetrics(m))
	_ = s.RegisterTests(Test(addOne, WithExecutionCount(2)))

	s.Run(context.Background(), "")
	s.RegisterGlobalTeardown(failing("x"))
	s.Run(context.Background(), "")

	if m.records != 2 {
		t.Errorf("records = %d, want 2", m.records)
	}
	if len(m.stages) != 1 || m.stages[0] != "Run After All Tests" {
		t.Errorf("stages = %v", m.stages)
	}
	if len(m.finished) != 2 || !m.finished[0] || m.finished[1] {
		t.Errorf("finished = %v, want [true false]", m.finished)
	}
}

type recordingRenderer struct {
	input ReportInput
}

func (r *recordingRenderer) Render(in ReportInput) string {
	r.input = in
	return "custom transcript"
}

func TestRun_CustomRenderer(t *testing.T) {
	r := &recordingRenderer{}
	s := newTestSuite(WithRenderer(r))
	_ = s.RegisterTests(Test(addOne))

	if !s.Run(context.Background(), "out.txt") {
		t.Fatal("Run() = false")
	}
	if len(r.input.Records) != 1 {
		t.Errorf("renderer got %d records, want 1", len(r.input.Records))
	}
	if got, _ := s.transcripts.Get("out.txt"); got != "custom transcript" {
		t.Errorf("transcript = %q", got)
	}
}

func TestRun_TranscriptFailureIsWarning(t *testing.T) {
	s := newTestSuite(WithTranscriptStore(persist.NewDir(t.TempDir() + "/missing\x00")))
	_ = s.RegisterTests(Test(addOne))

	if !s.Run(context.Background(), "out.txt") {
		t.Fatal("Run() = false, a failed export must not fail the run")
	}
	if !strings.Contains(s.stdout.String(), "Warning: Exporting to file 'out.txt' failed.") {
		t.Errorf("missing warning:\n%s", s.stdout)
	}
}

func TestDefaultSuite(t *testing.T) {
	Reset()
	defer Reset()

	if err := RegisterTests(Test(addOne), Test(addOne, WithGroup("bad|name"))); err == nil {
		t.Error("RegisterTests() error = nil, want error")
	}
	if Default().Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", Default().Pending())
	}

	var calls atomic.Int32
	RegisterGlobalSetup(counting(&calls))
	RegisterSetup(counting(&calls))
	RegisterTeardown(counting(&calls))
	RegisterGlobalTeardown(counting(&calls))
	if err := RegisterTests(Test(addOne)); err != nil {
		t.Fatal(err)
	}
	if Default().Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", Default().Pending())
	}
	if !Run(context.Background(), "") {
		t.Fatal("Run() = false")
	}
	if calls.Load() != 4 {
		t.Errorf("hook calls = %d, want 4", calls.Load())
	}
}
