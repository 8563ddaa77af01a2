package sim

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuiltinScenarios(t *testing.T) {
	for _, sc := range Builtin() {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunSimulation(context.Background(), DefaultConfig(), sc)
			if err != nil {
				t.Fatalf("%v (transitions %v)", err, result.Metrics.Transitions)
			}
			if !result.Success {
				t.Errorf("result not marked successful")
			}
		})
	}
}

func TestFixtureScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil || len(files) == 0 {
		t.Fatalf("no fixtures: %v", err)
	}
	for _, file := range files {
		scs, err := LoadScenarios(file)
		if err != nil {
			t.Fatalf("load %s: %v", file, err)
		}
		for _, sc := range scs {
			t.Run(sc.Name, func(t *testing.T) {
				if _, err := RunSimulation(context.Background(), DefaultConfig(), sc); err != nil {
					t.Error(err)
				}
			})
		}
	}
}

func TestFlingMetrics(t *testing.T) {
	sc := Builtin()[0]
	sim, err := NewSimulator(DefaultConfig(), sc)
	if err != nil {
		t.Fatal(err)
	}
	m, err := sim.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if m.Presents != 1 {
		t.Errorf("presents = %d", m.Presents)
	}
	if m.DismissedAfter <= 0 || m.DismissedAfter > time.Second {
		t.Errorf("dismissed after %v", m.DismissedAfter)
	}
	if m.FinalCenter.Y <= 480 {
		t.Errorf("image ended at %v, expected below the screen", m.FinalCenter)
	}
	if m.Frames == 0 || m.SimulatedTime < sc.Duration() {
		t.Errorf("frames=%d simulated=%v", m.Frames, m.SimulatedTime)
	}
}

func TestCheckReportsMismatch(t *testing.T) {
	sc := Builtin()[1]
	sc.Expect.Phase = "dismissed"
	_, err := RunSimulation(context.Background(), DefaultConfig(), sc)
	if err == nil || !strings.Contains(err.Error(), "final phase idle") {
		t.Errorf("err = %v", err)
	}
}

func TestThresholdOverride(t *testing.T) {
	sc := Builtin()[0]
	sc.Threshold = 5000
	sc.Expect = Expect{Phase: "idle", Teardowns: ptr(0)}
	if _, err := RunSimulation(context.Background(), DefaultConfig(), sc); err != nil {
		t.Error(err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim, err := NewSimulator(DefaultConfig(), Builtin()[0])
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Run(ctx); err == nil {
		t.Errorf("cancelled run returned no error")
	}
}

func TestParseScenariosErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "", "no scenarios"},
		{"unknown key", "name: x\nscren: {w: 1, h: 1}\n", "scren"},
		{"bad phase", "screen: {w: 1, h: 1}\nevents: [{phase: wiggle}]\n", "wiggle"},
		{"no screen", "events: []\n", "screen size"},
		{"bad action", "screen: {w: 1, h: 1}\nevents: [{action: spin}]\n", "spin"},
		{"zoom", "screen: {w: 1, h: 1}\nevents: [{action: zoom}]\n", "zoom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadScenariosNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-tap.yaml")
	data := "screen: {w: 320, h: 480}\nevents: [{at: 300ms, phase: tapped}]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	scs, err := LoadScenarios(path)
	if err != nil {
		t.Fatal(err)
	}
	if scs[0].Name != "quick-tap" {
		t.Errorf("name = %q", scs[0].Name)
	}
}

func TestExportResults(t *testing.T) {
	result, err := RunSimulation(context.Background(), DefaultConfig(), Builtin()[1])
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportResults(path, []*SimulationResult{result}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var back []SimulationResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].Metrics.Scenario != "slow-release" || !back[0].Success {
		t.Errorf("exported %+v", back)
	}
}
