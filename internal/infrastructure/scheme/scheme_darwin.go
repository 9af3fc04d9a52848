//go:build darwin

package scheme

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"go.uber.org/zap"
)

const lsregister = "/System/Library/Frameworks/CoreServices.framework/Versions/A/Frameworks/LaunchServices.framework/Versions/A/Support/lsregister"

// Register re-registers the enclosing app bundle with Launch Services
// so the URI scheme resolves to the current install location. Failures
// are logged; deep links keep working for correctly installed copies.
func Register(log *logging.Logger) {
	exe, err := os.Executable()
	if err != nil {
		log.Warn("Cannot locate executable for scheme registration", zap.Error(err))
		return
	}

	// Walk up from .app/Contents/MacOS/binary to the .app bundle.
	bundle := filepath.Dir(filepath.Dir(filepath.Dir(exe)))
	if filepath.Ext(bundle) != ".app" {
		log.Debug("Not running from an app bundle; skipping scheme registration",
			zap.String("path", exe),
		)
		return
	}

	if out, err := exec.Command(lsregister, "-f", bundle).CombinedOutput(); err != nil {
		log.Warn("lsregister failed",
			zap.String("bundle", bundle),
			zap.ByteString("output", out),
			zap.Error(err),
		)
		return
	}
	log.Info("URL scheme registered", zap.String("bundle", bundle))
}
