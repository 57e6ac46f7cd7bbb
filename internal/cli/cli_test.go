package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestSharedFlagsAvailableOnBothCommands(t *testing.T) {
	shared := []string{
		"proximity", "name-similarity", "year-tolerance",
		"ua", "http-proxy", "https-proxy",
		"no-cache", "no-footer", "no-verify",
		"llm", "llm-provider", "llm-model",
	}
	for _, cmd := range []*cobra.Command{checkCmd, batchCmd} {
		for _, name := range shared {
			if cmd.InheritedFlags().Lookup(name) == nil {
				t.Errorf("Expected %s to accept --%s", cmd.Name(), name)
			}
		}
	}
}

func TestCommandLocalFlags(t *testing.T) {
	// Mode forcing is check-only; worker sizing is batch-only. Both keep
	// their own timeout.
	for _, name := range []string{"sync", "async", "json", "md", "timeout"} {
		if checkCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected check to define --%s", name)
		}
	}
	for _, name := range []string{"concurrency", "output-dir", "timeout"} {
		if batchCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected batch to define --%s", name)
		}
	}
	if batchCmd.Flags().Lookup("sync") != nil {
		t.Error("Expected batch not to define --sync")
	}
}
