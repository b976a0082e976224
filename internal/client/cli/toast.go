package cli

import (
	"github.com/iudanet/finkeeper/internal/client/iocli"
	"github.com/iudanet/finkeeper/internal/optimistic"
)

// Toaster печатает уведомления синхронизатора в терминал
type Toaster struct {
	io iocli.IO
}

var _ optimistic.Notifier = (*Toaster)(nil)

// NewToaster создает Toaster
func NewToaster(io iocli.IO) *Toaster {
	return &Toaster{io: io}
}

// Notify печатает уведомление одной строкой
func (t *Toaster) Notify(n optimistic.Notification) {
	mark, style := "✓", successStyle
	if n.Variant == optimistic.VariantDestructive {
		mark, style = "✗", errorStyle
	}

	line := style.Render(mark + " " + n.Title)
	if n.Description != "" {
		line += " " + mutedStyle.Render(n.Description)
	}
	t.io.Println(line)
}
