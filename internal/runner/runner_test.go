package runner

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSystem_Look(t *testing.T) {
	s := System{}
	if !s.Look("sh") {
		t.Fatal("expected sh on PATH")
	}
	if s.Look("deepwiki-no-such-binary") {
		t.Fatal("expected missing binary to report false")
	}
}

func TestSystem_Output(t *testing.T) {
	s := System{}
	out, err := s.Output(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if out != "hello" {
		t.Fatalf("out = %q, want hello", out)
	}
}

func TestSystem_OutputNonZeroExit(t *testing.T) {
	s := System{}
	if _, err := s.Output(context.Background(), "sh", "-c", "exit 3"); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

func TestSystem_TimeoutBoundsRun(t *testing.T) {
	s := System{Timeout: 50 * time.Millisecond}
	start := time.Now()
	err := s.Run(context.Background(), "sleep", "5")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("command was not bounded: ran %v", elapsed)
	}
}

func TestSystem_RunStreamsOutput(t *testing.T) {
	var buf bytes.Buffer
	s := System{Stdout: &buf}
	if err := s.Run(context.Background(), "sh", "-c", "echo streamed"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := buf.String(); got != "streamed\n" {
		t.Fatalf("stdout = %q, want %q", got, "streamed\n")
	}
}
