package render

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Optimize validates and optimises a rendered PDF and returns it with its page count.
func Optimize(raw []byte) ([]byte, int, error) {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(raw), &out, cfg); err != nil {
		return nil, 0, fmt.Errorf("failed to validate/optimize PDF: %w", err)
	}
	pageCount, err := api.PageCount(bytes.NewReader(out.Bytes()), cfg)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return out.Bytes(), pageCount, nil
}
