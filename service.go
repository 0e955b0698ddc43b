package main

import (
	"context"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pipeline wires the scan, extraction and archive stages together.
type Pipeline struct {
	cfg Config
	log Logger
}

func NewPipeline(cfg Config, log Logger) *Pipeline {
	if log == nil {
		log = nopLogger{}
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Run converts one capture file into one HAR file. Only source and output
// I/O failures are returned; per-frame and per-flow problems are logged and
// the run continues with whatever parsed.
func (p *Pipeline) Run(ctx context.Context, input, output string) error {
	filter := DefaultPortFilter()
	for _, port := range p.cfg.Capture.ExcludePorts {
		filter.Exclude(uint16(port))
	}

	scanner := NewScanner(filter, p.log)
	if p.cfg.Capture.LinkTypeOverride != "" {
		scanner.OverrideLinkType(p.cfg.Capture.LinkTypeOverride)
	}

	p.log.Infof("processing %s", input)
	reg, stats, err := scanner.ScanFile(ctx, input)
	if err != nil {
		return err
	}
	p.log.Infof("scan done: frames=%d registered=%d filtered=%d skipped=%d failed=%d errors=%d connections=%d",
		stats.Frames, stats.Registered, stats.Filtered, stats.Skipped, stats.Failed, len(reg.Errors()), reg.Len())

	if dir := p.cfg.Capture.FlowsDir; dir != "" {
		if err := DumpFlows(reg, dir); err != nil {
			p.log.Errorf("flow dump failed: %v", err)
		}
	}

	httpFlows := p.extract(ctx, reg)
	p.log.Infof("flows=%d http=%d", reg.Len(), len(httpFlows))

	doc := BuildHAR(httpFlows)
	data, err := MarshalHAR(doc)
	if err != nil {
		return errors.Wrap(err, "encode har")
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return errors.Wrap(err, "write har")
	}
	p.log.Infof("wrote %s: %d entries", output, len(doc.Log.Entries))
	return nil
}

// extract runs HTTP extraction over the frozen flows. The flows are
// read-only at this point, so they can be parsed in parallel; one flow's
// failure never blocks the others.
func (p *Pipeline) extract(ctx context.Context, reg *Registry) []*HTTPFlow {
	flows := reg.Flows()
	results := make([]*HTTPFlow, len(flows))

	workers := p.cfg.HTTP.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	var failed int
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, flow := range flows {
		i, flow := i, flow
		g.Go(func() error {
			hf, err := ExtractHTTP(flow)
			if err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				p.log.Warnf("%s: flow %s: %v", ErrKindFlowParse, flow.Key(), err)
				return nil
			}
			results[i] = hf
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*HTTPFlow, 0, len(flows))
	for _, hf := range results {
		if hf != nil {
			out = append(out, hf)
		}
	}
	if failed > 0 {
		p.log.Infof("%d flows without parseable http", failed)
	}
	return out
}
