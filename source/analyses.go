package source

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"farmFilters/catalog"
	"farmFilters/types"
)

var ErrEmptyImage = errors.New("empty image")

// Analyses is the image-analysis workflow as seen by the dashboard.
type Analyses interface {
	Upload(ctx context.Context, filename, region string, image io.Reader) (catalog.Analysis, error)
	Get(ctx context.Context, id string) (catalog.Analysis, error)
	Recent(ctx context.Context, limit int) ([]catalog.Analysis, error)
	GenerateReport(ctx context.Context, id string) (catalog.Report, error)
}

// Detector inspects an uploaded image. The in-memory store has no model
// behind it; tests plug in canned detections.
type Detector func(filename string, image []byte) []catalog.Detection

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// MemoryAnalyses keeps analyses in memory. Safe for concurrent use.
type MemoryAnalyses struct {
	mu     sync.Mutex
	items  []catalog.Analysis
	detect Detector
	now    func() time.Time
}

func NewMemoryAnalyses(detect Detector, now func() time.Time) *MemoryAnalyses {
	if detect == nil {
		detect = func(string, []byte) []catalog.Detection { return nil }
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryAnalyses{detect: detect, now: now}
}

func (m *MemoryAnalyses) Upload(ctx context.Context, filename, region string, image io.Reader) (catalog.Analysis, error) {
	data, err := io.ReadAll(image)
	if err != nil {
		return catalog.Analysis{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if len(data) == 0 {
		return catalog.Analysis{}, fmt.Errorf("upload %s: %w", filename, ErrEmptyImage)
	}
	if err := ctx.Err(); err != nil {
		return catalog.Analysis{}, err
	}
	id, err := nanoid.Generate(idAlphabet, 10)
	if err != nil {
		return catalog.Analysis{}, fmt.Errorf("upload %s: %w", filename, err)
	}

	start := m.now()
	dets := m.detect(filename, data)
	a := catalog.Analysis{
		ID:             "analysis-" + id,
		Filename:       filename,
		UploadTime:     start,
		Region:         region,
		Detections:     dets,
		ViolationCount: len(dets),
		ProcessingTime: m.now().Sub(start),
	}
	a.Summary = a.Summarize()

	m.mu.Lock()
	m.items = append(m.items, a)
	m.mu.Unlock()
	return a, nil
}

func (m *MemoryAnalyses) Get(ctx context.Context, id string) (catalog.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, nil
		}
	}
	return catalog.Analysis{}, fmt.Errorf("analysis %q: %w", id, ErrNotFound)
}

// Recent returns up to limit analyses, newest upload first. limit <= 0 means all.
func (m *MemoryAnalyses) Recent(ctx context.Context, limit int) ([]catalog.Analysis, error) {
	m.mu.Lock()
	out := slices.Clone(m.items)
	m.mu.Unlock()

	slices.SortStableFunc(out, func(a, b catalog.Analysis) int {
		return cmp.Compare(b.UploadTime.UnixNano(), a.UploadTime.UnixNano())
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryAnalyses) GenerateReport(ctx context.Context, id string) (catalog.Report, error) {
	a, err := m.Get(ctx, id)
	if err != nil {
		return catalog.Report{}, err
	}
	return catalog.ReportFromAnalysis(a), nil
}

// ReportSource lists the reports of every analysis as records.
type ReportSource struct {
	Analyses Analyses
}

func (s ReportSource) Load(ctx context.Context) ([]types.Record, error) {
	all, err := s.Analyses.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}
	out := make([]types.Record, len(all))
	for i, a := range all {
		out[i] = catalog.ReportFromAnalysis(a).Record()
	}
	return out, nil
}
