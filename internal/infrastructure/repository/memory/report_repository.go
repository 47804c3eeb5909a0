package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ovalbyte/club-ladder/internal/domain/report"
)

type ReportRepository struct {
	mu     sync.RWMutex
	items  map[string]report.Report
	orders []string
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{items: make(map[string]report.Report)}
}

func (r *ReportRepository) List(_ context.Context) ([]report.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]report.Report, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneReport(r.items[id]))
	}

	return out, nil
}

func (r *ReportRepository) GetByID(_ context.Context, reportID string) (report.Report, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.items[reportID]
	if !ok {
		return report.Report{}, false, nil
	}

	return cloneReport(rep), true, nil
}

func (r *ReportRepository) Create(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rep.ID]; ok {
		return fmt.Errorf("report %s already exists", rep.ID)
	}

	r.items[rep.ID] = cloneReport(rep)
	r.orders = append(r.orders, rep.ID)
	return nil
}

func (r *ReportRepository) Update(_ context.Context, rep report.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[rep.ID]; !ok {
		return fmt.Errorf("report %s not found", rep.ID)
	}

	r.items[rep.ID] = cloneReport(rep)
	return nil
}

// Delete is the promotion claim: under the single write lock, at most one
// caller sees the report present and removes it.
func (r *ReportRepository) Delete(_ context.Context, reportID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[reportID]; !ok {
		return false, nil
	}

	delete(r.items, reportID)
	for i, id := range r.orders {
		if id == reportID {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return true, nil
}

func cloneReport(rep report.Report) report.Report {
	copied := rep
	copied.WinnerIDs = append([]string(nil), rep.WinnerIDs...)
	copied.LoserIDs = append([]string(nil), rep.LoserIDs...)
	copied.Acknowledged = append([]string(nil), rep.Acknowledged...)
	return copied
}
