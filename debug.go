package boardkit

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger creates a logger with timestamp formatting and the "boardkit"
// prefix. The logger writes to w and filters messages below level.
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "boardkit",
	})
}

// SetDebugMode enables or disables debug mode. When enabled, the logger is
// lowered to debug level so transitions and graph rebuilds are reported,
// along with camera and graph summaries.
func (b *Board) SetDebugMode(enabled bool) {
	switch {
	case enabled && !b.debug:
		b.savedLevel = b.logger.GetLevel()
		b.logger.SetLevel(log.DebugLevel)
	case !enabled && b.debug:
		b.logger.SetLevel(b.savedLevel)
	}
	b.debug = enabled
}

// DebugMode reports whether debug mode is on.
func (b *Board) DebugMode() bool { return b.debug }

// debugCamera logs the camera and warns when it had to be sanitized.
func (b *Board) debugCamera() {
	cam := b.camera.Camera()
	if !cam.Valid() {
		b.logger.Warn("degenerate camera", "zoom", cam.Zoom, "panX", cam.Pan.X, "panY", cam.Pan.Y)
		return
	}
	b.logger.Debug("camera", "zoom", cam.Zoom, "panX", cam.Pan.X, "panY", cam.Pan.Y)
}

// debugGraph logs graph statistics after a rebuild.
func (b *Board) debugGraph() {
	st := b.Graph().Stats()
	b.logger.Debug("graph",
		"nodes", st.NodeCount,
		"edges", st.EdgeCount,
		"connected", st.ConnectedNodes,
		"isolated", st.IsolatedNodes)
}
