// Command hfsmdemo exercises a small hierarchical state machine built with
// hfsmx, for manual poking at the engine from a shell.
package main

import (
	"fmt"
	"os"

	"github.com/hfsmx/hfsmx"
	"github.com/hfsmx/hfsmx/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "hfsmdemo",
		Short: "Build and drive a small demo hierarchical state machine",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "attach a logrus logger to the machine")

	root.AddCommand(runCmd(), describeCmd(), dotCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var events []string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the demo machine and dispatch a sequence of events",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildDemoMachine()
			if err != nil {
				return err
			}
			for _, name := range events {
				ev := hfsmx.Event{Name: name}
				m.React(ev)
				fmt.Printf("after %s:\n%s\n", name, m.StructureString())
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&events, "event", []string{"activate", "deactivate"}, "event names to dispatch in order")
	return cmd
}

func describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the demo machine's tree structure",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildDemoMachine()
			if err != nil {
				return err
			}
			fmt.Print(m.StructureString())
			return nil
		},
	}
}

func dotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dot",
		Short: "Print the demo machine's tree as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildDemoMachine()
			if err != nil {
				return err
			}
			fmt.Print(m.DOT())
			return nil
		},
	}
}

type demoIDs struct {
	idle, active, errorState hfsmx.StateID
}

// buildDemoMachine wires three sibling leaves under one Resumable composite.
// The leaves need each other's StateIDs to issue ChangeTo requests, but
// those IDs aren't assigned until Build() runs, so the state bodies close
// over a shared *demoIDs that's populated right after.
func buildDemoMachine() (*hfsmx.Machine, demoIDs, error) {
	ids := &demoIDs{}

	spec := hfsmx.Composite("root", hfsmx.StrategyResumable, nil,
		hfsmx.State("idle", &idleState{ids: ids}),
		hfsmx.State("active", &activeState{ids: ids}),
		hfsmx.State("error", &errorState{ids: ids}),
	)

	b := hfsmx.NewBuilder(spec)
	if verbose {
		b.WithContext("hfsmdemo")
	}
	m, err := b.Build()
	if err != nil {
		return nil, demoIDs{}, err
	}
	if verbose {
		m.AttachLogger(logging.NewLogrusLogger(logrus.StandardLogger()))
	}

	ids.idle, _ = m.StateByName("idle")
	ids.active, _ = m.StateByName("active")
	ids.errorState, _ = m.StateByName("error")
	return m, *ids, nil
}

type idleState struct {
	hfsmx.BaseState
	ids *demoIDs
}

func (s *idleState) React(ev hfsmx.Event, ctl hfsmx.FullControl) hfsmx.Status {
	if ev.Name == "activate" {
		ctl.ChangeTo(s.ids.active)
	}
	return hfsmx.Status{}
}

type activeState struct {
	hfsmx.BaseState
	ids *demoIDs
}

func (s *activeState) React(ev hfsmx.Event, ctl hfsmx.FullControl) hfsmx.Status {
	switch ev.Name {
	case "deactivate":
		ctl.ChangeTo(s.ids.idle)
	case "error":
		ctl.ChangeTo(s.ids.errorState)
	}
	return hfsmx.Status{}
}

type errorState struct {
	hfsmx.BaseState
	ids *demoIDs
}

func (s *errorState) React(ev hfsmx.Event, ctl hfsmx.FullControl) hfsmx.Status {
	if ev.Name == "reset" {
		ctl.ChangeTo(s.ids.idle)
	}
	return hfsmx.Status{}
}
