package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"converti/internal/services"
)

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MoveFile renames src to dst, falling back to copy and remove when the two
// paths live on different filesystems.
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := CopyFileMode(src, dst, 0o644); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("move %s: %w", filepath.Base(src), err)
	}
	return os.Remove(src)
}

// WriteAtomic runs write against a temp file in the directory of path and
// renames it into place on success. On failure the temp file is removed and
// path is left untouched.
func WriteAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// PrepareOutput checks that outputPath may be written for inputPath: it must
// differ from the input, and an existing file is only acceptable when
// overwrite is set.
func PrepareOutput(inputPath, outputPath string, overwrite bool) error {
	inAbs, err := filepath.Abs(inputPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "output", "resolve input", "", err)
	}
	outAbs, err := filepath.Abs(outputPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "output", "resolve output", "", err)
	}
	if inAbs == outAbs {
		return services.Wrap(services.ErrValidation, "output", "check path",
			fmt.Sprintf("output %s would replace the input file", filepath.Base(outputPath)), nil)
	}
	if overwrite {
		return nil
	}
	_, err = os.Stat(outAbs)
	switch {
	case err == nil:
		return services.Wrap(services.ErrValidation, "output", "check path",
			fmt.Sprintf("%s already exists (enable conversion.overwrite to replace it)", filepath.Base(outputPath)), nil)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return services.Wrap(services.ErrValidation, "output", "stat output", "", err)
	}
}

// RequireInput returns a not-found error when path is missing or a directory.
func RequireInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "input", "open", fmt.Sprintf("%s does not exist", path), nil)
		}
		return services.Wrap(services.ErrNotFound, "input", "stat", "", err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "input", "open", fmt.Sprintf("%s is a directory", path), nil)
	}
	return nil
}
