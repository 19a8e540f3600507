package pdftext

import (
	"context"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// Inspector validates an uploaded document and reports its page count.
type Inspector struct {
	conf *model.Configuration
}

func NewInspector() *Inspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Inspector{conf: conf}
}

func (i *Inspector) Inspect(ctx context.Context, r io.ReadSeeker) (int, error) {
	pages, err := api.PageCount(r, i.conf)
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", err)
	}
	return pages, nil
}
