//go:build !darwin

package scheme

import "github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"

// Register is a no-op outside macOS; installers own scheme
// registration on those platforms.
func Register(log *logging.Logger) {}
