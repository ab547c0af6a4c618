package businessflow

import (
	"context"

	"github.com/amirphl/desa-ngasem/app/dto"
)

// DashboardFlow summarizes the managed records for the admin dashboard
type DashboardFlow interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

// counter is satisfied by every resource flow
type counter interface {
	Resource() string
	Count(ctx context.Context) (int, error)
}

type DashboardFlowImpl struct {
	counters     []counter
	services     ServiceFlow
	news         NewsFlow
	applications ServiceApplicationFlow
}

// NewDashboardFlow builds a dashboard over the given flows; counts come from the cached lists
func NewDashboardFlow(services ServiceFlow, news NewsFlow, applications ServiceApplicationFlow, others ...counter) DashboardFlow {
	counters := []counter{services, news, applications}
	counters = append(counters, others...)
	return &DashboardFlowImpl{
		counters:     counters,
		services:     services,
		news:         news,
		applications: applications,
	}
}

func (f *DashboardFlowImpl) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	summary := &dto.DashboardSummary{Counts: make(map[string]int, len(f.counters))}

	for _, c := range f.counters {
		n, err := c.Count(ctx)
		if err != nil {
			return nil, err
		}
		summary.Counts[c.Resource()] = n
	}

	pending, err := f.applications.CountPending(ctx)
	if err != nil {
		return nil, err
	}
	summary.PendingApplications = pending

	published, err := f.news.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	summary.PublishedNews = len(published)

	active, err := f.services.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	summary.ActiveServices = len(active)

	return summary, nil
}
