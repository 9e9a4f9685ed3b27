// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// concat_explain prints the plan of the concatenation of two value types, and optionally runs it
// on generated operands.
//
// Usage:
//
//	concat_explain -dim=x 'tensor(id{},x[2])' 'tensor<float>(id{},x[3])'
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/mixedtensor/pkg/core/value"
	"github.com/gomlx/mixedtensor/pkg/core/valuetype"
	"github.com/gomlx/mixedtensor/pkg/eval/concat"
	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"k8s.io/klog/v2"
)

var (
	flagDim     = flag.String("dim", "", "Name of the indexed dimension to concatenate along.")
	flagFactory = flag.String("factory", "",
		fmt.Sprintf("Builder factory configuration, e.g. \"pooled:max_cells=4096\". "+
			"If empty, uses $%s, and if that is not set, the default factory.", value.FactoryConfigEnvVar))
	flagRun = flag.Bool("run", false, "Execute the plan on operands filled with sequential values, "+
		"and print the result.")
	flagLabels = flag.Int("labels", 2, "Number of labels per mapped dimension of the generated operands of -run.")
	flagRepeat = flag.Int("repeat", 0, "If > 0, times this many executions of the plan on the generated operands.")
	flagColor  = flag.Bool("color", true, "Use colors in the output, if the terminal supports them.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if !*flagColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	args := flag.Args()
	if len(args) != 2 || *flagDim == "" {
		klog.Errorf("Expected -dim and two value types as arguments. See 'concat_explain -help'.")
		os.Exit(1)
	}
	lhsType, err := valuetype.Parse(args[0])
	if err != nil {
		klog.Exitf("Failed to parse left type: %+v", err)
	}
	rhsType, err := valuetype.Parse(args[1])
	if err != nil {
		klog.Exitf("Failed to parse right type: %+v", err)
	}

	var factory value.BuilderFactory
	if *flagFactory != "" {
		factory, err = value.NewFactoryWithConfig(*flagFactory)
	} else {
		factory, err = value.NewFactory()
	}
	if err != nil {
		klog.Exitf("Failed to create builder factory: %+v", err)
	}

	inst, err := concat.MakeInstruction(lhsType, rhsType, *flagDim, factory)
	if err != nil {
		klog.Exitf("Failed to plan concat: %+v", err)
	}
	explain(inst.Plan())
	if *flagRun || *flagRepeat > 0 {
		run(inst)
	}
}

func explain(plan *concat.Plan) {
	fmt.Println(titleStyle.Render("Concat plan"))
	kernel := "generic"
	if plan.IsFlat() {
		kernel = "flat"
	}
	dense := &plan.DenseConcat
	var summary propertyTable
	summary.add("left", plan.LHSType.String())
	summary.add("right", plan.RHSType.String())
	summary.add("dimension", plan.Dimension)
	summary.mark("result", plan.ResultType.String())
	summary.add("kernel", kernel)
	summary.add("factory", plan.Factory().Name())
	summary.add("mapped sources", fmt.Sprintf("%v", plan.SparseJoin.Sources))
	summary.add("subspace cells", humanize.Comma(int64(dense.OutputSize)))
	summary.add("subspace bytes", humanize.IBytes(uint64(dense.OutputSize*plan.ResultType.CellType.Size())))
	summary.add("right offset", humanize.Comma(int64(dense.RightOffset)))
	fmt.Println(summary)

	for _, side := range []struct {
		name string
		loop *concat.InOutLoop
	}{{"Left loops", &dense.Left}, {"Right loops", &dense.Right}} {
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s (%s cells per subspace)", side.name,
			humanize.Comma(int64(side.loop.InputSize)))))
		fmt.Println(loopTable(side.loop))
	}
}

func run(inst *concat.Instruction) {
	plan := inst.Plan()
	lhs := must.M1(sequentialValue(plan.LHSType, *flagLabels, 1))
	rhs := must.M1(sequentialValue(plan.RHSType, *flagLabels, -1))
	result := inst.Execute(lhs, rhs)
	if *flagRun {
		fmt.Println(titleStyle.Render("Execution"))
		fmt.Printf("left:   %s\n", lhs)
		fmt.Printf("right:  %s\n", rhs)
		fmt.Printf("result: %s\n", result)
	}
	if *flagRepeat <= 0 {
		return
	}
	numCells := result.NumSubspaces() * plan.DenseConcat.OutputSize
	result.Finalize()
	elapsed := repeatWithProgress(*flagRepeat, func() {
		inst.Execute(lhs, rhs).Finalize()
	})
	perExecution := elapsed / time.Duration(*flagRepeat)
	fmt.Println(titleStyle.Render("Timing"))
	var timing propertyTable
	timing.add("executions", humanize.Comma(int64(*flagRepeat)))
	timing.add("total", elapsed.String())
	timing.mark("per execution", perExecution.String())
	timing.add("throughput", humanize.SI(float64(numCells)*float64(*flagRepeat)/elapsed.Seconds(), "cells/s"))
	fmt.Println(timing)
}
