package compress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// atomicWriter writes a file through a temp file in the same directory and a rename,
// retrying transient failures with exponential backoff.
type atomicWriter struct {
	retries uint
	initial time.Duration
}

func newAtomicWriter(retries int) *atomicWriter {
	if retries < 0 {
		retries = 0
	}
	return &atomicWriter{retries: uint(retries), initial: 50 * time.Millisecond}
}

func (w *atomicWriter) Write(ctx context.Context, dst string, data []byte, perm os.FileMode) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.initial
	b.MaxInterval = time.Second

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := writeFileAtomic(dst, data, perm)
		if err == nil {
			return struct{}{}, nil
		}
		if !isTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		zap.S().Named("writer").Debugw("transient write failure", "path", dst, "attempt", attempt, "error", err)
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(w.retries+1))
	return err
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}

func writeFileAtomic(dst string, data []byte, perm os.FileMode) error {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, dst)
}
