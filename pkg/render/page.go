package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/retree/pkg/tree"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is the root node of the page content.
	Body *tree.Node

	// Title is the page title.
	Title string

	// Styles contains inline CSS.
	Styles []string

	// Scripts contains inline scripts appended to the body.
	Scripts []string

	// Lang defaults to "en".
	Lang string
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if err := r.renderHead(w, page); err != nil {
		return err
	}
	return r.renderBody(w, page)
}

func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, style := range page.Styles {
		if _, err := fmt.Fprintf(w, "<style>%s</style>\n", style); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</head>\n")
	return err
}

func (r *Renderer) renderBody(w io.Writer, page PageData) error {
	if _, err := io.WriteString(w, "<body>\n"); err != nil {
		return err
	}
	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}
	for _, script := range page.Scripts {
		if _, err := fmt.Fprintf(w, "\n<script>%s</script>", script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}
