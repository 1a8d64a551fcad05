package browser

import (
	"context"
	"encoding/json"
)

// Driver is the boundary to the browser automation engine. Everything the
// pipeline knows about a live page goes through these three calls.
type Driver interface {
	//Navigate opens the URL in the current page context
	Navigate(ctx context.Context, url string) error

	//ExecuteScript runs an in-page function and returns its JSON result.
	//arg may be nil for zero-argument scripts.
	ExecuteScript(ctx context.Context, script string, arg any) (json.RawMessage, error)

	//CloseContext releases the current page context. Navigate after a
	//close starts a fresh context.
	CloseContext() error
}

// Screenshotter is implemented by drivers that can capture debug
// screenshots. Callers probe for it with a type assertion.
type Screenshotter interface {
	CaptureScreenshot(name string) error
}
