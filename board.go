package boardkit

import (
	"context"

	"github.com/charmbracelet/log"
)

// Board is the kernel instance for one canvas surface. It owns the camera,
// the event pipeline, the interaction store, and the element graph; nothing
// is shared between boards, so any number can coexist.
//
// A Board is driven synchronously from its host's input loop and is not
// safe for concurrent use.
type Board struct {
	cfg       Config
	logger    *log.Logger
	camera    *CameraController
	pipeline  *Pipeline
	store     *Store
	sync      *GraphSync
	container Rect

	debug      bool
	savedLevel log.Level
}

// NewBoard creates a board over elements. A nil elements store gets an empty
// MemoryElementStore.
func NewBoard(cfg Config, elements ElementStore) *Board {
	cfg = cfg.WithDefaults()
	if elements == nil {
		elements = NewMemoryElementStore()
	}
	b := &Board{
		cfg:      cfg,
		logger:   cfg.Logger,
		camera:   NewCameraController(cfg),
		pipeline: NewPipeline(),
		store:    NewStore(cfg),
		sync:     NewGraphSync(elements, cfg.Logger),
	}
	b.SetDebugMode(cfg.Debug)
	return b
}

// Config returns the board's configuration with defaults applied.
func (b *Board) Config() Config { return b.cfg }

// CameraController returns the controller that owns the camera.
func (b *Board) CameraController() *CameraController { return b.camera }

// Camera returns the current camera.
func (b *Board) Camera() Camera { return b.camera.Camera() }

// Pipeline returns the board's event pipeline.
func (b *Board) Pipeline() *Pipeline { return b.pipeline }

// Interaction returns the board's interaction store.
func (b *Board) Interaction() *Store { return b.store }

// Graph returns the board's element graph.
func (b *Board) Graph() *Graph { return b.sync.Graph() }

// GraphSync returns the adapter that keeps the graph in step with the store.
func (b *Board) GraphSync() *GraphSync { return b.sync }

// Elements returns the backing element store.
func (b *Board) Elements() ElementStore { return b.sync.Store() }

// SetContainerRect records the canvas container's rectangle in the host's
// client coordinates. Call it whenever the container moves or resizes.
func (b *Board) SetContainerRect(r Rect) {
	b.container = r
}

// ContainerRect returns the last container rectangle.
func (b *Board) ContainerRect() Rect { return b.container }

// --- Input ---

// PointerEvent converts a native pointer event using the board's current
// container and camera.
func (b *Board) PointerEvent(native NativePointerEvent, typ PointerEventType) CanvasPointerEvent {
	rect, cam := b.container, b.camera.Camera()
	evt := b.pipeline.ProcessPointerEvent(native, typ, &rect, &cam)
	if typ == PointerCancel {
		b.Cancel()
	}
	return evt
}

// WheelEvent converts a native wheel event using the board's current
// container and camera.
func (b *Board) WheelEvent(native NativeWheelEvent) WheelCanvasEvent {
	rect, cam := b.container, b.camera.Camera()
	return b.pipeline.ProcessWheelEvent(native, &rect, &cam)
}

// ApplyWheel zooms or pans the camera for a wheel event. Reports whether the
// camera changed.
func (b *Board) ApplyWheel(evt WheelCanvasEvent) bool {
	changed := b.camera.HandleWheel(evt)
	if changed && b.debug {
		b.debugCamera()
	}
	return changed
}

// Cancel abandons the active gesture. Hosts call it for Escape and for
// pointer cancel events.
func (b *Board) Cancel() {
	b.store.ResetToIdle()
}

// Update advances camera animations by dt seconds.
func (b *Board) Update(dt float32) bool {
	return b.camera.Update(dt)
}

// --- Coordinates ---

// ScreenToWorld converts a point in client coordinates to world space.
func (b *Board) ScreenToWorld(sx, sy float64) Vec2 {
	return ScreenToWorld(sx, sy, b.camera.Camera(), b.container)
}

// WorldToScreen converts a world point to client coordinates.
func (b *Board) WorldToScreen(p Vec2) Vec2 {
	return WorldToScreen(p, b.camera.Camera(), b.container)
}

// VisibleBounds returns the world rectangle currently in view.
func (b *Board) VisibleBounds() Rect {
	return VisibleWorldBounds(b.camera.Camera(), b.container)
}

// CanvasTransform returns the canvas transform for the current camera. A dpr
// <= 0 uses the configured default.
func (b *Board) CanvasTransform(dpr, offsetWidth, offsetHeight float64) CanvasTransform {
	if dpr <= 0 {
		dpr = b.cfg.DPR
	}
	return CanvasTransformFor(b.camera.Camera(), dpr, offsetWidth, offsetHeight)
}

// --- Graph ---

// Refresh re-syncs the graph from the element store.
func (b *Board) Refresh(ctx context.Context) (bool, error) {
	changed, err := b.sync.Refresh(ctx)
	if changed && b.debug {
		b.debugGraph()
	}
	return changed, err
}

// Reparent moves nodes under a new parent through the element store.
func (b *Board) Reparent(ctx context.Context, nodeIDs []string, newParentID string) error {
	return b.sync.Reparent(ctx, nodeIDs, newParentID)
}

// FindNearestAnchor snaps point to an anchor of nodeID within the configured
// threshold.
func (b *Board) FindNearestAnchor(nodeID string, point Vec2) (AnchorMatch, bool) {
	return b.Graph().FindNearestAnchor(nodeID, point, b.cfg.AnchorThreshold)
}
