package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"converti/internal/services"
)

const bundledToolsSubdir = "tools"

// Locator resolves bundled executables relative to an install directory.
type Locator struct {
	dir       string
	overrides map[string]string
}

// NewLocator returns a Locator rooted at dir. An empty dir means the directory
// holding the running executable. overrides maps a tool name to an explicit
// path that takes precedence over the install directory.
func NewLocator(dir string, overrides map[string]string) (*Locator, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		installDir, err := InstallDir()
		if err != nil {
			return nil, err
		}
		dir = installDir
	}
	clean := make(map[string]string, len(overrides))
	for name, path := range overrides {
		if path = strings.TrimSpace(path); path != "" {
			clean[name] = path
		}
	}
	return &Locator{dir: dir, overrides: clean}, nil
}

// InstallDir returns the directory containing the running executable with
// symlinks resolved.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "tools", "install dir", "resolve executable path", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Dir returns the install directory the locator searches.
func (l *Locator) Dir() string {
	if l == nil {
		return ""
	}
	return l.dir
}

// Candidates lists the paths Resolve checks for name, in order.
func (l *Locator) Candidates(name string) []string {
	if l == nil {
		return nil
	}
	if override, ok := l.overrides[name]; ok {
		return []string{override}
	}
	file := executableName(name)
	return []string{
		filepath.Join(l.dir, file),
		filepath.Join(l.dir, bundledToolsSubdir, file),
	}
}

// Resolve returns the first executable candidate for name. The error matches
// services.ErrToolNotFound when nothing usable exists.
func (l *Locator) Resolve(name string) (string, error) {
	candidates := l.Candidates(name)
	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && isExecutable(info) {
			return candidate, nil
		}
	}
	return "", services.Wrap(
		services.ErrToolNotFound,
		"tools",
		"locate "+name,
		fmt.Sprintf("%s not found (looked in %s)", name, strings.Join(candidates, ", ")),
		nil,
	)
}

// Status reports whether name resolves, for display by the doctor command.
func (l *Locator) Status(name, description string, optional bool) Status {
	status := Status{Name: name, Description: description, Optional: optional}
	path, err := l.Resolve(name)
	if err != nil {
		candidates := l.Candidates(name)
		if len(candidates) > 0 {
			status.Command = candidates[0]
		}
		status.Detail = fmt.Sprintf("not found next to converti (%s)", l.Dir())
		return status
	}
	status.Command = path
	status.Available = true
	return status
}

func executableName(name string) string {
	if runtime.GOOS == "windows" && !strings.EqualFold(filepath.Ext(name), ".exe") {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
