package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dwikikusuma/shoping-voice/internal/faq/domain"
)

var ErrLoadFailure = errors.New("faq load failure")

type FAQRepo struct {
	path string
}

func NewFAQRepo(path string) *FAQRepo {
	return &FAQRepo{path: path}
}

func (r *FAQRepo) Load(ctx context.Context) (domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return domain.Document{}, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: read %s: %v", ErrLoadFailure, r.path, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%w: decode %s: %v", ErrLoadFailure, r.path, err)
	}
	return doc, nil
}
