package service

import (
	"context"
	"net/http"
)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonStatus
	ReasonNetwork
)

// HealthResult says whether uploads may be attempted. Reason tells a
// non-2xx answer apart from a backend that could not be reached at all.
type HealthResult struct {
	Ready  bool
	Reason Reason
	Status int
	URL    string
	Err    error
}

func (b *Backend) Health(ctx context.Context) HealthResult {
	res := HealthResult{URL: b.baseURL}
	req, err := b.newRequest(ctx, http.MethodGet, pathHealth, nil)
	if err != nil {
		res.Reason, res.Err = ReasonNetwork, err
		return res
	}
	resp, err := b.do("health", req)
	if err != nil {
		res.Reason, res.Err = ReasonNetwork, err
		return res
	}
	res.Status = resp.status
	if !resp.ok() {
		res.Reason = ReasonStatus
		return res
	}
	res.Ready = true
	return res
}
