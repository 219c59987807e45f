package site

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Controller dispatches navigation targets to the section renderer. Targets
// arrive as anchor fragments ("#music"); the leading marker is stripped
// before dispatch.
type Controller struct {
	renderer *Renderer
	logger   *logrus.Logger
}

// NewController creates a navigation controller over a renderer
func NewController(renderer *Renderer, logger *logrus.Logger) *Controller {
	return &Controller{renderer: renderer, logger: logger}
}

// Navigate renders the section named by target. An empty target is a no-op;
// a target with no matching section logs a warning and renders nothing.
// Render failures for known sections abort only this request.
func (c *Controller) Navigate(w io.Writer, target string) error {
	section := strings.TrimPrefix(strings.TrimSpace(target), "#")
	if section == "" {
		return nil
	}

	err := c.renderer.RenderSection(w, section)
	if errors.Is(err, ErrUnknownSection) {
		c.logger.WithField("section", section).Warn("No renderer for section")
		return nil
	}
	return err
}
