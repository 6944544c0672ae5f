package changelog

import "errors"

// Error kinds per §4.7/§7: {TemplateNotFound|RenderError|SeparatorNotFound|WriteError}.
var (
	ErrTemplateNotFound  = errors.New("changelog: template not found")
	ErrRenderError       = errors.New("changelog: render failed")
	ErrSeparatorNotFound = errors.New("changelog: separator line not found in existing changelog")
	ErrWriteError        = errors.New("changelog: write failed")
)
