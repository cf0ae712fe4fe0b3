package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	r := &Runner{}
	res, err := r.Run(context.Background(), []string{"echo", "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if string(res.Stdout) != "hello\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "hello\n")
	}
	if res.RunID == "" {
		t.Error("RunID is empty")
	}
	if res.Truncated {
		t.Error("Truncated = true, want false")
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	r := &Runner{}
	res, err := r.Run(context.Background(), []string{"sh", "-c", "echo partial; exit 3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if string(res.Stdout) != "partial\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "partial\n")
	}
}

func TestRun_StderrSeparate(t *testing.T) {
	r := &Runner{}
	res, err := r.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Stdout) != "out\n" {
		t.Errorf("Stdout = %q, want %q", res.Stdout, "out\n")
	}
	if string(res.Stderr) != "err\n" {
		t.Errorf("Stderr = %q, want %q", res.Stderr, "err\n")
	}
}

func TestRun_BinaryNotFound(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), []string{"nonexistent-binary-xyz-123"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !strings.Contains(err.Error(), "nonexistent-binary-xyz-123") {
		t.Errorf("error = %q, want to mention the binary name", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error = %v, want to wrap exec.ErrNotFound", err)
	}
}

func TestRun_EmptyArgv(t *testing.T) {
	r := &Runner{}
	_, err := r.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestRun_Dir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "subdir")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	r := &Runner{Dir: sub}
	res, err := r.Run(context.Background(), []string{"pwd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(res.Stdout), "subdir") {
		t.Errorf("Stdout = %q, want to contain 'subdir'", res.Stdout)
	}
}

func TestRun_Timeout(t *testing.T) {
	r := &Runner{Timeout: 100 * time.Millisecond}
	_, err := r.Run(context.Background(), []string{"sleep", "10"})
	if err == nil {
		t.Fatal("expected error on timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestRun_TimeoutWithGrandchild(t *testing.T) {
	r := &Runner{Timeout: 100 * time.Millisecond}

	// sh is killed on timeout, but sleep inherits stdout and keeps it open.
	start := time.Now()
	_, err := r.Run(context.Background(), []string{"sh", "-c", "sleep 5; echo 'host: late'"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > 3*time.Second {
		t.Errorf("Run took %v, want well under the 5s sleep", elapsed)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{}
	_, err := r.Run(ctx, []string{"echo", "hello"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRun_OutputTruncation(t *testing.T) {
	r := &Runner{MaxOutput: 100} // very small cap

	// Generate output larger than cap.
	res, err := r.Run(context.Background(), []string{"sh", "-c", "dd if=/dev/zero bs=200 count=1 2>/dev/null"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(res.Stdout) != r.MaxOutput {
		t.Errorf("len(Stdout) = %d, want %d", len(res.Stdout), r.MaxOutput)
	}
}

func TestRun_Unlimited(t *testing.T) {
	r := &Runner{}
	res, err := r.Run(context.Background(), []string{"sh", "-c", "dd if=/dev/zero bs=4096 count=4 2>/dev/null"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Stdout) != 4*4096 {
		t.Errorf("len(Stdout) = %d, want %d", len(res.Stdout), 4*4096)
	}
	if res.Truncated {
		t.Error("Truncated = true, want false")
	}
}
