// Package ui implements interactive terminal views using bubbletea's Elm architecture.
//
// Two standalone programs are provided:
//
//  1. [UploadModel] : live progress bar for a running video upload, fed by
//     the same non-blocking progress channel the plain CLI output uses
//  2. [DashboardModel] : platform connection dashboard with refresh and
//     disconnect actions
//
// Both models implement bubbletea's standard Init/Update/View pattern.
// Keyboard navigation uses vim-style bindings (j/k, r, d, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
