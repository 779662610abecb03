package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/arborsmith/arbor/internal/logging"
)

// Local implements Gateway over the host filesystem.
//
// Local syscalls are not cancellable, so the context is accepted for
// interface symmetry and ignored.
type Local struct{}

var _ Gateway = (*Local)(nil)

func NewLocal() *Local { return &Local{} }

func (l *Local) ListDir(ctx context.Context, path string) ([]Entry, error) {
	_ = ctx

	fi, err := os.Stat(path)
	if err != nil {
		return nil, classify("list", path, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("list %s: %w", path, ErrUnsupported)
	}

	des, err := os.ReadDir(path)
	if err != nil {
		return nil, classify("list", path, err)
	}

	entries := make([]Entry, 0, len(des))
	for _, de := range des {
		info, err := de.Info()
		if err != nil {
			// One broken child must not sink the whole listing.
			logging.L().Warn("skipping unreadable entry",
				zap.String("dir", path),
				zap.String("name", de.Name()),
				zap.Error(err),
			)
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Path:    filepath.Join(path, de.Name()),
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	SortEntries(entries)
	return entries, nil
}

func (l *Local) Stat(ctx context.Context, path string) (Entry, error) {
	_ = ctx

	fi, err := os.Stat(path)
	if err != nil {
		return Entry{}, classify("stat", path, err)
	}
	return Entry{
		Name:    filepath.Base(path),
		Path:    path,
		IsDir:   fi.IsDir(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	_ = ctx

	srcInfo, err := os.Stat(oldPath)
	if err != nil {
		return classify("rename", oldPath, err)
	}
	// os.Rename replaces an existing destination silently; refuse that
	// up front. A case-only rename on an insensitive filesystem stats
	// the source itself, which is not a collision.
	if dstInfo, err := os.Stat(newPath); err == nil && !os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("rename %s: %w", newPath, ErrExists)
	}
	return classify("rename", oldPath, os.Rename(oldPath, newPath))
}

func (l *Local) DeleteFile(ctx context.Context, path string) error {
	_ = ctx

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			// Already gone, nothing left to do.
			return nil
		}
		return classify("delete", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("delete %s: %w", path, ErrUnsupported)
	}
	return classify("delete", path, os.Remove(path))
}

func (l *Local) DeleteDirectory(ctx context.Context, path string) error {
	_ = ctx

	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil
		}
		return classify("delete", path, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("delete %s: %w", path, ErrUnsupported)
	}
	return classify("delete", path, os.RemoveAll(path))
}

func (l *Local) CopyFile(ctx context.Context, src, dst string) error {
	_ = ctx

	srcInfo, err := os.Stat(src)
	if err != nil {
		return classify("copy", src, err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("copy %s: %w", src, ErrUnsupported)
	}

	in, err := os.Open(src)
	if err != nil {
		return classify("copy", src, err)
	}
	defer in.Close()

	// O_EXCL makes the collision check atomic.
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return classify("copy", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return classify("copy", dst, err)
	}
	return classify("copy", dst, out.Close())
}

func (l *Local) MoveFile(ctx context.Context, src, dst string) error {
	return l.Rename(ctx, src, dst)
}

func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	_ = ctx

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	return data, nil
}

func (l *Local) WriteFile(ctx context.Context, path string, data []byte) error {
	_ = ctx
	return classify("write", path, os.WriteFile(path, data, 0o644))
}

func (l *Local) Mkdir(ctx context.Context, path string) error {
	_ = ctx
	return classify("mkdir", path, os.Mkdir(path, 0o755))
}
