package interpreter

import "ippinterp/pkg/stack"

// FrameTag selects one of the three frame registers.
type FrameTag string

const (
	GlobalFrame    FrameTag = "GF"
	LocalFrame     FrameTag = "LF"
	TemporaryFrame FrameTag = "TF"
)

// Frames holds the frame registers and the stack of saved local frames.
// A nil entry on the saved stack records that no local frame existed when
// PushFrame ran.
type Frames struct {
	Global *Frame
	Local  *Frame
	Temp   *Frame

	saved *stack.Stack[*Frame]
}

// NewFrames creates the registers with only the global frame present.
func NewFrames() *Frames {
	return &Frames{
		Global: NewFrame(),
		saved:  stack.NewStack[*Frame](),
	}
}

// Resolve returns the live frame behind tag.
func (fs *Frames) Resolve(tag FrameTag) (*Frame, error) {
	var f *Frame
	switch tag {
	case GlobalFrame:
		f = fs.Global
	case LocalFrame:
		f = fs.Local
	case TemporaryFrame:
		f = fs.Temp
	default:
		return nil, newError(CodeBadStructure, "unknown frame %q", tag)
	}

	if f == nil {
		return nil, newError(CodeFrameMissing, "frame %s does not exist", tag)
	}
	return f, nil
}

// CreateFrame replaces the temporary frame with an empty one.
func (fs *Frames) CreateFrame() {
	fs.Temp = NewFrame()
}

// PushFrame saves the local frame and promotes the temporary frame to local.
func (fs *Frames) PushFrame() error {
	if fs.Temp == nil {
		return newError(CodeFrameMissing, "no temporary frame to push")
	}

	fs.saved.Push(fs.Local)
	fs.Local = fs.Temp
	fs.Temp = nil
	return nil
}

// PopFrame moves the local frame to the temporary register and restores the
// previously saved local frame.
func (fs *Frames) PopFrame() error {
	prev, ok := fs.saved.Pop()
	if !ok {
		return newError(CodeFrameMissing, "no frame to pop")
	}

	fs.Temp = fs.Local
	fs.Local = prev
	return nil
}

// Depth returns the number of saved local frames.
func (fs *Frames) Depth() int {
	return fs.saved.Len()
}
