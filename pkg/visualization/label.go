package visualization

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Label displays a single line of status text
type Label interface {
	SetText(text string)
}

// TextLabel stores the latest text
type TextLabel struct {
	mu   sync.RWMutex
	text string
}

// SetText replaces the label text
func (l *TextLabel) SetText(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

// Text returns the label text
func (l *TextLabel) Text() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.text
}

// LogLabel writes every update to a logger at debug level
type LogLabel struct {
	Logger *log.Logger
}

// SetText logs text
func (l LogLabel) SetText(text string) {
	if l.Logger != nil {
		l.Logger.Debug(text)
	}
}

// MultiLabel forwards text to several labels
type MultiLabel []Label

// SetText forwards text to every label
func (m MultiLabel) SetText(text string) {
	for _, l := range m {
		l.SetText(text)
	}
}
