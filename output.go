package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteOut dumps the flow's two directional byte sequences to <base>.fwd and
// <base>.rev for offline inspection.
func (f *Flow) WriteOut(base string) error {
	if err := os.WriteFile(base+".fwd", f.FwdBytes(), 0o644); err != nil {
		return errors.Wrap(err, "write forward data")
	}
	if err := os.WriteFile(base+".rev", f.RevBytes(), 0o644); err != nil {
		return errors.Wrap(err, "write reverse data")
	}
	return nil
}

// DumpFlows writes every flow in the registry under dir, one pair of files
// per flow named by registry position. The directory is recreated clean.
func DumpFlows(reg *Registry, dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return errors.Wrap(err, "clean flow dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create flow dir")
	}
	for i, flow := range reg.Flows() {
		base := filepath.Join(dir, fmt.Sprintf("%d", i))
		if err := flow.WriteOut(base); err != nil {
			return err
		}
	}
	return nil
}
