package sheet

import (
	"context"
	"fmt"
)

// Source is the spreadsheet boundary. Values returns the whole sheet, header row first.
type Source interface {
	Values(ctx context.Context, sheet string) (Grid, error)
	Update(ctx context.Context, sheet string, values Grid) error
	Append(ctx context.Context, sheet string, rows Grid) error
}

// ReadTable loads a sheet as a keyed table
func ReadTable(ctx context.Context, src Source, sheet string) (*Table, error) {
	values, err := src.Values(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return values.Table(), nil
}

// ReadGrid loads a sheet for editing. The returned grid is a private copy.
func ReadGrid(ctx context.Context, src Source, sheet string) (Grid, error) {
	values, err := src.Values(ctx, sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmptySheet)
	}
	return values.Clone(), nil
}

// ReadSeason loads and normalizes a season sheet
func ReadSeason(ctx context.Context, src Source, season string, opts Options) (*Season, error) {
	t, err := ReadTable(ctx, src, season)
	if err != nil {
		return nil, err
	}
	return Normalize(t, season, opts), nil
}
