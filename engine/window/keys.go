package window

// Key is a virtual key code. Printable keys use their ASCII value; the rest follow GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key int

const (
	KeySpace  Key = 32
	KeyQ      Key = 81
	KeyEscape Key = 256
	KeyEnter  Key = 257
	KeyF11    Key = 300
)
