// package validate contains pure validation predicates for credentials,
// video files, and upload metadata.
//
// Validation happens locally and synchronously; nothing in this package
// touches the network. Report messages match the publishing service's
// user-facing language.
package validate

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxTitleLength is the longest accepted video title.
	MaxTitleLength = 100
	// MaxDescriptionLength is the longest accepted video description.
	MaxDescriptionLength = 5000
	// MaxTagCount is the most tags accepted on a single video.
	MaxTagCount = 30
	// DefaultMaxFileSizeMB is the upload size ceiling applied when the
	// config does not override it.
	DefaultMaxFileSizeMB = 500
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// allowedVideoMIME is the video container allow-list.
var allowedVideoMIME = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/x-msvideo":  true,
	"video/x-matroska": true,
	"video/webm":       true,
}

var allowedVideoExt = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
}

// IsValidEmail reports whether the string has the shape of an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsStrongPassword reports whether the password is at least 8 characters and
// contains an uppercase letter, a lowercase letter, and a digit.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	return hasUpper && hasLower && hasDigit
}

// IsValidURL reports whether the string parses as an absolute URL.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsValidVideoFile reports whether the file at path is an accepted video
// container. The extension is checked first; when the file is readable its
// content is sniffed as well, so a renamed text file does not pass.
func IsValidVideoFile(path string) bool {
	if !allowedVideoExt[strings.ToLower(filepath.Ext(path))] {
		return false
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		// Unreadable file: the extension check is all we have.
		return true
	}

	for m := mtype; m != nil; m = m.Parent() {
		if allowedVideoMIME[m.String()] {
			return true
		}
	}

	return false
}

// IsValidFileSize reports whether the file at path is within maxSizeMB.
// A non-positive maxSizeMB falls back to [DefaultMaxFileSizeMB].
func IsValidFileSize(path string, maxSizeMB int) bool {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxFileSizeMB
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Size() <= int64(maxSizeMB)*1024*1024
}

// Report is the outcome of a metadata validation pass.
type Report struct {
	Valid  bool
	Errors []string
}

// VideoMetadata checks title, description, and tags against the service's
// field limits. Every violated rule is reported; validation never
// short-circuits on the first failure.
func VideoMetadata(title, description string, tags []string) Report {
	var errors []string

	if strings.TrimSpace(title) == "" {
		errors = append(errors, "Titel ist erforderlich")
	}

	if len(title) > MaxTitleLength {
		errors = append(errors, fmt.Sprintf("Titel darf maximal %d Zeichen lang sein", MaxTitleLength))
	}

	if len(description) > MaxDescriptionLength {
		errors = append(errors, fmt.Sprintf("Beschreibung darf maximal %d Zeichen lang sein", MaxDescriptionLength))
	}

	if len(tags) > MaxTagCount {
		errors = append(errors, fmt.Sprintf("Maximal %d Tags erlaubt", MaxTagCount))
	}

	return Report{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}
