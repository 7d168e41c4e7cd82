package platform

// AppName identifies the application to the host notification service.
const AppName = "ShineyPaint"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Timeout is the display time in milliseconds; zero means five seconds.
	Timeout int32
}

func (o Options) timeout() int32 {
	if o.Timeout <= 0 {
		return 5000
	}
	return o.Timeout
}
