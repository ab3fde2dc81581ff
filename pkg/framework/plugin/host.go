package plugin

// WireFormat identifies the host protocol a wrapper bridges to.
type WireFormat int32

const (
	FormatUnknown WireFormat = iota
	FormatVST2
	FormatVST3
	FormatAU
	FormatAAX
	FormatLV2
)

func (f WireFormat) String() string {
	switch f {
	case FormatVST2:
		return "vst2"
	case FormatVST3:
		return "vst3"
	case FormatAU:
		return "au"
	case FormatAAX:
		return "aax"
	case FormatLV2:
		return "lv2"
	default:
		return "unknown"
	}
}

// HostCallbacks is the capability surface a format wrapper provides to the
// core. Implementations live in the wrapper, outside this module.
type HostCallbacks interface {
	// BeginEdit tells the host a GUI gesture on a parameter started.
	BeginEdit(index int32)
	// PerformEdit forwards a GUI-driven parameter change for automation
	// recording.
	PerformEdit(index int32, normalized float64)
	// EndEdit tells the host the gesture finished.
	EndEdit(index int32)
	// RequestResize asks the host to resize the editor's parent window.
	RequestResize(width, height int32) bool
	// AppName identifies the hosting application.
	AppName() string
	// WireFormat identifies the protocol this wrapper bridges.
	WireFormat() WireFormat
}
