package dom

import "time"

// Keyframe is a set of CSS property values at one point of an animation.
type Keyframe map[string]string

// AnimationOptions configures an animation.
type AnimationOptions struct {
	Duration time.Duration
	Delay    time.Duration
	Easing   string
	Fill     string
}

// PlayState is the state of an animation.
type PlayState uint8

const (
	AnimationRunning PlayState = iota
	AnimationFinished
	AnimationCancelled
)

// String returns the string representation of the PlayState.
func (s PlayState) String() string {
	switch s {
	case AnimationRunning:
		return "running"
	case AnimationFinished:
		return "finished"
	case AnimationCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Animation is a running keyframe animation on an element. The environment
// advances it: Finish completes it and runs the OnFinish callbacks.
type Animation struct {
	Target    *Node
	Keyframes []Keyframe
	Options   AnimationOptions

	state    PlayState
	onFinish []func()
}

// Animate starts an animation on n.
func (n *Node) Animate(keyframes []Keyframe, opts AnimationOptions) *Animation {
	a := &Animation{Target: n, Keyframes: keyframes, Options: opts}
	n.animations = append(n.animations, a)
	if n.doc != nil {
		n.doc.animMu.Lock()
		n.doc.animations = append(n.doc.animations, a)
		n.doc.animMu.Unlock()
	}
	return a
}

// Animations returns the running animations on n.
func (n *Node) Animations() []*Animation {
	var out []*Animation
	for _, a := range n.animations {
		if a.state == AnimationRunning {
			out = append(out, a)
		}
	}
	return out
}

// PlayState returns the current state.
func (a *Animation) PlayState() PlayState { return a.state }

// OnFinish registers fn to run when the animation finishes. Cancelled
// animations never run their callbacks.
func (a *Animation) OnFinish(fn func()) {
	if a.state == AnimationFinished {
		fn()
		return
	}
	a.onFinish = append(a.onFinish, fn)
}

// Finish completes a running animation.
func (a *Animation) Finish() {
	if a.state != AnimationRunning {
		return
	}
	a.state = AnimationFinished
	a.detach()
	callbacks := a.onFinish
	a.onFinish = nil
	for _, fn := range callbacks {
		fn()
	}
}

// Cancel stops a running animation without running callbacks.
func (a *Animation) Cancel() {
	if a.state != AnimationRunning {
		return
	}
	a.state = AnimationCancelled
	a.onFinish = nil
	a.detach()
}

func (a *Animation) detach() {
	n := a.Target
	for i, other := range n.animations {
		if other == a {
			n.animations = append(n.animations[:i], n.animations[i+1:]...)
			break
		}
	}
	if n.doc == nil {
		return
	}
	n.doc.animMu.Lock()
	defer n.doc.animMu.Unlock()
	for i, other := range n.doc.animations {
		if other == a {
			n.doc.animations = append(n.doc.animations[:i], n.doc.animations[i+1:]...)
			break
		}
	}
}

// Animations returns the running animations of the document.
func (d *Document) Animations() []*Animation {
	d.animMu.Lock()
	defer d.animMu.Unlock()
	return append([]*Animation(nil), d.animations...)
}

// FinishAnimations finishes every running animation and returns how many
// finished.
func (d *Document) FinishAnimations() int {
	list := d.Animations()
	for _, a := range list {
		a.Finish()
	}
	return len(list)
}
