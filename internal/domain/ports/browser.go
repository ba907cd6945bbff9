package ports

// BrowserLauncher opens the viewer page. Launch does nothing when noOpen is set.
type BrowserLauncher interface {
	Launch(url string, noOpen bool) error
	Detect() (string, error)
}
