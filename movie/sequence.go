package movie

import (
	"github.com/wippyai/swf/coder"
	"github.com/wippyai/swf/errors"
)

// decodeRecords decodes records with reg until length bytes of the
// innermost open record have been consumed. Failures are left on d.
func decodeRecords(d *coder.Decoder, ctx *coder.Context, reg *coder.Registry, length int) []coder.Record {
	var out []coder.Record
	for d.Err() == nil && d.Consumed() < length {
		r, err := reg.Decode(d, ctx)
		if err != nil {
			d.SetError(err)
			break
		}
		out = append(out, r)
	}
	return out
}

// prepareRecords prepares each record and returns the plans and their
// total length.
func prepareRecords(records []coder.Record, ctx *coder.Context) ([]coder.Plan, int, error) {
	plans := make([]coder.Plan, len(records))
	total := 0
	for i, r := range records {
		p, err := r.Prepare(ctx)
		if err != nil {
			return nil, 0, err
		}
		plans[i] = p
		total += p.Length()
	}
	return plans, total, nil
}

// encodeRecords writes each record with its plan. Failures are left on e.
func encodeRecords(e *coder.Encoder, records []coder.Record, plans []coder.Plan, ctx *coder.Context) {
	for i, r := range records {
		if e.Err() != nil {
			return
		}
		if err := r.Encode(e, plans[i], ctx); err != nil {
			e.SetError(err)
		}
	}
}

// childPlans recovers the plans a container stored in its own plan.
func childPlans(p coder.Plan, name string, n int) ([]coder.Plan, error) {
	plans, ok := p.State.([]coder.Plan)
	if !ok || len(plans) != n {
		return nil, errors.NoPlan(name)
	}
	return plans, nil
}
