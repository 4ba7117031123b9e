package util

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// CameraMonitor answers "is the webcam in use" by reading a kernel
// module-usage table (lsmod format: name, size, refcount, users). The
// watched module is busy when its refcount is nonzero.
type CameraMonitor struct {
	Path   string
	Module string
}

func NewCameraMonitor() CameraMonitor {
	return CameraMonitor{
		Path:   Config.GetString("camera_modules_path"),
		Module: Config.GetString("camera_module"),
	}
}

func (c CameraMonitor) Busy() (bool, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			Logger.Warn().Msgf("Error closing %s: %v", c.Path, closeErr)
		}
	}()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 || fields[0] != c.Module {
			continue
		}
		refcount, err := strconv.Atoi(fields[2])
		if err != nil {
			Logger.Warn().Msgf("bad refcount for module %s: %q", c.Module, fields[2])
			return false, nil
		}
		return refcount > 0, nil
	}
	// module not loaded means no camera driver, so not busy
	return false, scanner.Err()
}
