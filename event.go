package boardkit

// PointerEventType identifies the phase of a pointer event.
type PointerEventType uint8

const (
	PointerDown   PointerEventType = iota // button pressed
	PointerMove                           // pointer moved, pressed or not
	PointerUp                             // button released
	PointerCancel                         // platform cancelled the gesture
	PointerEnter                          // pointer entered the container
	PointerLeave                          // pointer left the container
)

var pointerEventTypeNames = [...]string{"pointerdown", "pointermove", "pointerup", "pointercancel", "pointerenter", "pointerleave"}

// String returns the DOM event name.
func (t PointerEventType) String() string {
	if int(t) < len(pointerEventTypeNames) {
		return pointerEventTypeNames[t]
	}
	return "unknown"
}

// DefaultPressure is reported for pointers that have no pressure sensor.
const DefaultPressure = 0.5

// --- Native event records ---

// NativePointerEvent is a host-agnostic copy of a PointerEvent/MouseEvent.
// ClientX/ClientY are in the same space as the container rectangle (page or
// window pixels).
type NativePointerEvent struct {
	ClientX, ClientY float64
	Button           MouseButton
	// Pressure is only meaningful when HasPressure is true; plain mice do
	// not report it.
	Pressure    float64
	HasPressure bool
	PointerID   int
	PointerType string // "mouse", "pen", "touch"
	Modifiers   Modifiers
	Target      Target

	// Controller receives PreventDefault/StopPropagation calls. May be nil.
	Controller EventController
}

// NativeWheelEvent is a host-agnostic copy of a WheelEvent.
type NativeWheelEvent struct {
	ClientX, ClientY float64
	DeltaX, DeltaY   float64
	DeltaMode        int
	Modifiers        Modifiers
	Target           Target
	Controller       EventController
}

// EventController is implemented by hosts that can cancel the platform's
// default handling or propagation of an event.
type EventController interface {
	PreventDefault()
	StopPropagation()
}

// eventFlags records PreventDefault/StopPropagation calls and forwards them.
type eventFlags struct {
	controller         EventController
	defaultPrevented   bool
	propagationStopped bool
}

// PreventDefault marks the event as handled and forwards to the host.
func (f *eventFlags) PreventDefault() {
	if f == nil {
		return
	}
	f.defaultPrevented = true
	if f.controller != nil {
		f.controller.PreventDefault()
	}
}

// StopPropagation stops the event reaching other listeners on the host.
func (f *eventFlags) StopPropagation() {
	if f == nil {
		return
	}
	f.propagationStopped = true
	if f.controller != nil {
		f.controller.StopPropagation()
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (f *eventFlags) DefaultPrevented() bool { return f != nil && f.defaultPrevented }

// PropagationStopped reports whether StopPropagation was called.
func (f *eventFlags) PropagationStopped() bool { return f != nil && f.propagationStopped }

// --- Canvas-domain events ---

// CanvasPointerEvent is a pointer event with both screen and world coordinates.
type CanvasPointerEvent struct {
	Type PointerEventType
	// WorldPoint is where the pointer is in world space.
	WorldPoint Vec2
	// ScreenPoint is the pointer position relative to the container origin.
	ScreenPoint Vec2
	Button      MouseButton
	Pressure    float64
	PointerID   int
	Modifiers   Modifiers
	Native      NativePointerEvent
	Target      Target

	*eventFlags
}

// WheelCanvasEvent is a wheel event with zoom intent and raw deltas.
type WheelCanvasEvent struct {
	WorldPoint  Vec2
	ScreenPoint Vec2
	DeltaX      float64
	DeltaY      float64
	DeltaMode   int
	// IsZoom follows the browser convention that trackpad pinch arrives as
	// ctrl+wheel; meta+wheel is treated the same.
	IsZoom    bool
	Modifiers Modifiers
	Native    NativeWheelEvent
	Target    Target

	*eventFlags
}

// --- Pipeline ---

// Pipeline converts native events into canvas events for one board. It keeps
// the last container rectangle and camera it was given; explicit arguments to
// the Process methods always take precedence and refresh those snapshots.
type Pipeline struct {
	container Rect
	camera    Camera
}

// NewPipeline returns a pipeline with an empty container and default camera.
func NewPipeline() *Pipeline {
	return &Pipeline{camera: DefaultCamera()}
}

// SetContainerRect stores the container rectangle used when none is passed.
func (p *Pipeline) SetContainerRect(r Rect) { p.container = r }

// SetCamera stores the camera used when none is passed.
func (p *Pipeline) SetCamera(c Camera) { p.camera = c }

// ContainerRect returns the stored container rectangle.
func (p *Pipeline) ContainerRect() Rect { return p.container }

// Camera returns the stored camera.
func (p *Pipeline) Camera() Camera { return p.camera }

// geometry resolves the container and camera for one event.
func (p *Pipeline) geometry(container *Rect, cam *Camera) (Rect, Camera) {
	if container != nil {
		p.container = *container
	}
	if cam != nil {
		p.camera = *cam
	}
	return p.container, p.camera
}

// ProcessPointerEvent builds a CanvasPointerEvent. Pass nil container or cam
// to reuse the stored snapshot.
func (p *Pipeline) ProcessPointerEvent(native NativePointerEvent, typ PointerEventType, container *Rect, cam *Camera) CanvasPointerEvent {
	rect, camera := p.geometry(container, cam)
	off := containerOffset(rect)

	pressure := DefaultPressure
	if native.HasPressure {
		pressure = native.Pressure
	}
	return CanvasPointerEvent{
		Type:        typ,
		WorldPoint:  ScreenToWorld(native.ClientX, native.ClientY, camera, rect),
		ScreenPoint: Vec2{native.ClientX - off.X, native.ClientY - off.Y},
		Button:      native.Button,
		Pressure:    pressure,
		PointerID:   native.PointerID,
		Modifiers:   native.Modifiers,
		Native:      native,
		Target:      native.Target,
		eventFlags:  &eventFlags{controller: native.Controller},
	}
}

// ProcessWheelEvent builds a WheelCanvasEvent. Pass nil container or cam to
// reuse the stored snapshot.
func (p *Pipeline) ProcessWheelEvent(native NativeWheelEvent, container *Rect, cam *Camera) WheelCanvasEvent {
	rect, camera := p.geometry(container, cam)
	off := containerOffset(rect)
	return WheelCanvasEvent{
		WorldPoint:  ScreenToWorld(native.ClientX, native.ClientY, camera, rect),
		ScreenPoint: Vec2{native.ClientX - off.X, native.ClientY - off.Y},
		DeltaX:      native.DeltaX,
		DeltaY:      native.DeltaY,
		DeltaMode:   native.DeltaMode,
		IsZoom:      native.Modifiers.Ctrl || native.Modifiers.Meta,
		Modifiers:   native.Modifiers,
		Native:      native,
		Target:      native.Target,
		eventFlags:  &eventFlags{controller: native.Controller},
	}
}
