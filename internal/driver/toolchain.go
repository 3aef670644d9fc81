package driver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/vellum-lang/vellumc/internal/scope"
)

// lockPath is the lock file in the system temp directory that the driver
// serializes external
// toolchain invocations through (§6.3). No library in the retrieval pack
// provides file locking (grep across every example's go.mod/go.sum turned
// up nothing), so this uses a plain O_CREATE|O_EXCL advisory lock file: the
// stdlib is the only option available, not a stylistic choice.
func lockPath() string {
	dir := os.TempDir()
	return filepath.Join(dir, "vellumc-build.lock")
}

// acquireLock spins with a short backoff until it can create the lock file
// exclusively, or the context expires.
func acquireLock(ctx context.Context) (*os.File, error) {
	path := lockPath()
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, errors.Wrap(err, "acquiring build lock")
		}
		select {
		case <-ctx.Done():
			return nil, errors.New("timed out waiting for the build lock")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func releaseLock(f *os.File) {
	path := f.Name()
	f.Close()
	os.Remove(path)
}

// invokeToolchain shells out to the target's external toolchain (cargo for
// systems, npm for script) under the exclusive lock (§6.3). The build
// profile (release vs test) is passed straight through; the core never
// inspects it (§6.3: "not consulted by the core").
func invokeToolchain(ctx context.Context, outDir string, target scope.Target, profile BuildProfile) error {
	lock, err := acquireLock(ctx)
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	name, args := toolchainCommand(target, profile)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = outDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "invoking %s", name)
	}
	return nil
}

func toolchainCommand(target scope.Target, profile BuildProfile) (string, []string) {
	switch target {
	case scope.TargetSystems:
		if profile == ProfileTest {
			return "cargo", []string{"test"}
		}
		return "cargo", []string{"build", "--release"}
	default:
		if profile == ProfileTest {
			return "npm", []string{"test"}
		}
		return "npm", []string{"install"}
	}
}
