package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"pushcast/internal/formatter"
	"pushcast/internal/models"
	"pushcast/internal/upload"
)

type progressUpdateMsg upload.ProgressUpdate

type uploadCompleteMsg struct {
	response *models.UploadResponse
	err      error
}

// UploadModel renders a live progress view for a running upload.
//
// The upload itself runs in a goroutine; progress flows through the same
// non-blocking channel the CLI path uses.
type UploadModel struct {
	ctx      context.Context
	uploader *upload.Uploader
	request  upload.Request

	bar          progress.Model
	update       upload.ProgressUpdate
	progressChan chan upload.ProgressUpdate
	response     *models.UploadResponse
	err          error
	done         bool
}

// NewUploadModel creates the progress view for one upload request.
func NewUploadModel(ctx context.Context, uploader *upload.Uploader, request upload.Request) *UploadModel {
	return &UploadModel{
		ctx:      ctx,
		uploader: uploader,
		request:  request,
		bar:      progress.New(progress.WithDefaultGradient()),
	}
}

// Response returns the upload outcome once the program has finished.
func (m *UploadModel) Response() (*models.UploadResponse, error) {
	return m.response, m.err
}

// Init starts the upload and begins draining progress updates.
func (m *UploadModel) Init() tea.Cmd {
	m.progressChan = make(chan upload.ProgressUpdate, 50)

	go func() {
		response, err := m.uploader.UploadVideo(m.ctx, m.request, m.progressChan)
		m.response = response
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

// Update handles incoming messages and updates the model state.
func (m *UploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case progressUpdateMsg:
		m.update = upload.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case uploadCompleteMsg:
		m.response = msg.response
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current phase and transfer progress.
func (m *UploadModel) View() string {
	if m.done {
		if m.err != nil {
			return styles.err.Render(fmt.Sprintf("✗ Upload fehlgeschlagen: %v", m.err)) + "\n"
		}
		return styles.ok.Render("✓ Upload abgeschlossen") + "\n"
	}

	title := styles.title.Render("Video wird hochgeladen")

	var phase string
	switch m.update.Phase {
	case upload.Validate:
		phase = "Prüfe Video und Metadaten..."
	case upload.Prepare:
		phase = m.update.Message
	case upload.Transfer:
		phase = fmt.Sprintf("Übertrage %s", formatBytes(m.update.Sent, m.update.Total))
	case upload.Finalize:
		phase = "Verarbeite Plattform-Ergebnisse..."
	}

	bar := m.bar.ViewAs(m.update.Percent)
	help := styles.help.Render("ctrl+c abbrechen")

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n", title, phase, bar, help)
}

func (m *UploadModel) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.progressChan
		if !ok {
			return uploadCompleteMsg{response: m.response, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func formatBytes(sent, total int64) string {
	if total <= 0 {
		return formatter.HumanSize(sent)
	}
	return fmt.Sprintf("%s / %s", formatter.HumanSize(sent), formatter.HumanSize(total))
}
