package upload

import (
	"fmt"
	"path/filepath"
)

// ProgressUpdate represents a progress event during an upload.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase   // Upload phase
	Sent    int64   // Bytes of the file transferred so far
	Total   int64   // Total file size in bytes, 0 when unknown
	Percent float64 // Transfer completion, 0 to 1
	Message string  // Human-readable message for display
}

// Upload phase enumeration
type Phase int

const (
	Validate Phase = iota
	Prepare
	Transfer
	Finalize
)

func (p Phase) String() string {
	switch p {
	case Validate:
		return "validate"
	case Prepare:
		return "prepare"
	case Transfer:
		return "transfer"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

func validateUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Validate,
		Message: "Validating video and metadata...",
	}
}

func prepareUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Prepare,
		Message: fmt.Sprintf("Preparing upload (%s)...", filepath.Base(path)),
	}
}

func transferUpdate(sent, total int64) ProgressUpdate {
	update := ProgressUpdate{
		Phase:   Transfer,
		Sent:    sent,
		Total:   total,
		Message: "Uploading...",
	}
	if total > 0 {
		update.Percent = float64(sent) / float64(total)
	}
	return update
}

func finalizeUpdate(resultCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finalize,
		Percent: 1,
		Message: fmt.Sprintf("Processing platform results (%d)...", resultCount),
	}
}
