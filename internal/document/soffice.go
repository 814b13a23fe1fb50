package document

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"converti/internal/config"
	"converti/internal/deps"
	"converti/internal/fileutil"
	"converti/internal/formats"
	"converti/internal/services"
)

const sofficeTool = "soffice"

// SofficeDelegate converts documents with LibreOffice in headless mode.
type SofficeDelegate struct {
	// Command is the soffice executable: a bare name looked up next to
	// converti and then on PATH, or an explicit path.
	Command string
	Locator *deps.Locator
	Run     deps.Runner
	Timeout time.Duration
}

// NewSofficeDelegate builds the delegate from configuration.
func NewSofficeDelegate(cfg *config.Config, locator *deps.Locator) *SofficeDelegate {
	return &SofficeDelegate{
		Command: cfg.Tools.Soffice,
		Locator: locator,
		Timeout: cfg.ToolTimeout(),
	}
}

// Resolve returns the executable the delegate will launch.
func (s *SofficeDelegate) Resolve() (string, error) {
	command := strings.TrimSpace(s.Command)
	if command == "" {
		command = sofficeTool
	}
	if strings.ContainsRune(command, filepath.Separator) || strings.Contains(command, "/") {
		if _, err := os.Stat(command); err != nil {
			return "", services.Wrap(services.ErrToolNotFound, "document", "locate soffice", command, err)
		}
		return command, nil
	}
	if s.Locator != nil {
		if path, err := s.Locator.Resolve(command); err == nil {
			return path, nil
		}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", services.Wrap(services.ErrToolNotFound, "document", "locate soffice",
			fmt.Sprintf("%s not found next to converti or on PATH", command), err)
	}
	return path, nil
}

// Convert implements Delegate. LibreOffice names its output after the input
// inside --outdir; the file is moved when outputPath differs from that name.
func (s *SofficeDelegate) Convert(ctx context.Context, inputPath, outputPath string) error {
	binary, err := s.Resolve()
	if err != nil {
		return err
	}
	run := s.Run
	if run == nil {
		run = deps.Run
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	outDir := filepath.Dir(outputPath)
	output, err := run(ctx, binary, "--headless", "--convert-to", pdfToken, "--outdir", outDir, inputPath)
	if err != nil {
		return deps.ToolError(sofficeTool, output, err)
	}

	produced := filepath.Join(outDir, filepath.Base(formats.SiblingPath(inputPath, "."+pdfToken)))
	if !fileutil.Exists(produced) {
		return fmt.Errorf("soffice reported success but %s was not created: %s",
			filepath.Base(produced), strings.TrimSpace(string(output)))
	}
	if produced != outputPath {
		return fileutil.MoveFile(produced, outputPath)
	}
	return nil
}
