package media

import (
	"strings"

	"vidquiz/internal/domain"
)

// WatchURLPrefix is the accepted URL family. Other hosts and short-link
// forms are rejected before any network or filesystem activity.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// ValidateURL checks a submitted string against the accepted URL family.
// No side effects; must run before any expensive work begins.
func ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return domain.NewMissingURLError()
	}
	if !strings.HasPrefix(url, WatchURLPrefix) {
		return domain.NewInvalidURLFormatError(WatchURLPrefix)
	}
	return nil
}
