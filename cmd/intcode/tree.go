package main

import (
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/hexaflex/intcode/amp"
)

// networkTree renders the winning network of a search, one node per
// amplifier in signal order.
func networkTree(res *amp.Result, feedback bool) treeprint.Tree {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("signal %d, phases %v", res.Signal, res.Phases))

	for i, s := range res.Stages {
		tree.AddMetaNode(fmt.Sprintf("amp %d", i),
			fmt.Sprintf("phase %d, output %d, inputs %d, steps %d", s.Phase, s.Output, s.Inputs, s.Steps))
	}

	if feedback && len(res.Stages) > 0 {
		tree.AddNode(fmt.Sprintf("amp %d -> amp 0", len(res.Stages)-1))
	}
	return tree
}
