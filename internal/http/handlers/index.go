package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type IndexHandler struct {
	page []byte
}

// the page is rendered once, it has no per-request state
func NewIndexHandler(googleClientID string) (*IndexHandler, error) {
	var buf bytes.Buffer

	err := indexTemplate.Execute(&buf, struct{ GoogleClientID string }{GoogleClientID: googleClientID})
	if err != nil {
		return nil, err
	}

	return &IndexHandler{page: buf.Bytes()}, nil
}

func (h *IndexHandler) Index(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
