package playback

// VideoElement is the capability set the controller mirrors its state onto.
// Implementations must not call back into the controller synchronously.
type VideoElement interface {
	Play()
	Pause()
	CurrentTime() float64
	SetCurrentTime(seconds float64)
	Paused() bool
	Ended() bool
}

// ElementOptions are applied to an element when it is attached
type ElementOptions struct {
	Loop        bool
	Muted       bool
	Autoplay    bool
	PlaysInline bool
}

// Configurable is implemented by elements that accept ElementOptions
type Configurable interface {
	Configure(opts ElementOptions)
}

// attachOptions leave looping and autoplay to the controller
var attachOptions = ElementOptions{
	Loop:        false,
	Muted:       true,
	Autoplay:    false,
	PlaysInline: true,
}
