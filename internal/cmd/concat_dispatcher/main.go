// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// concat_dispatcher generates pkg/eval/concat/gen_register_dtypes.go, the registration of the concat
// kernels for each combination of cell types.
//
// It should be run from the pkg/eval/concat directory, usually with `go generate`.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path"
	"text/template"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"
)

type DTypeInfo struct {
	DType, GoType string

	// POD is true for Go native types, that convert to other POD types with a simple cast.
	POD bool
}

type TripleInfo struct {
	LHS, RHS, Out          DTypeInfo
	ConvertLHS, ConvertRHS string
}

type Data struct {
	MapName, SameTypeGeneric, ConvertedGeneric string
	SameType                                   []DTypeInfo
	Triples                                    []TripleInfo
}

var (
	float64Info  = DTypeInfo{"Float64", "float64", true}
	float32Info  = DTypeInfo{"Float32", "float32", true}
	bfloat16Info = DTypeInfo{"BFloat16", "bfloat16.BFloat16", false}
	float16Info  = DTypeInfo{"Float16", "float16.Float16", false}
	int8Info     = DTypeInfo{"Int8", "int8", true}

	// allDTypes in the same order as dtypes.All.
	allDTypes = []DTypeInfo{float64Info, float32Info, bfloat16Info, float16Info, int8Info}

	fileName = "gen_register_dtypes.go"
)

// unify mirrors dtypes.Unify: same type is kept, Float64 wins, anything else goes to Float32.
func unify(a, b DTypeInfo) DTypeInfo {
	switch {
	case a.DType == b.DType:
		return a
	case a.DType == "Float64" || b.DType == "Float64":
		return float64Info
	default:
		return float32Info
	}
}

// converter returns the name of the converter instantiation from one cell type to another.
func converter(from, to DTypeInfo) string {
	switch {
	case from.DType == to.DType:
		return fmt.Sprintf("convertIdentity[%s]", from.GoType)
	case from.POD && to.POD:
		return fmt.Sprintf("convertPOD[%s, %s]", from.GoType, to.GoType)
	case from.DType == "BFloat16" && to.POD:
		return fmt.Sprintf("convertFromBFloat16[%s]", to.GoType)
	case from.DType == "Float16" && to.POD:
		return fmt.Sprintf("convertFromFloat16[%s]", to.GoType)
	}
	klog.Fatalf("no converter from %s to %s", from.DType, to.DType)
	return ""
}

func makeData() Data {
	data := Data{
		MapName:          "concatDTypeMap",
		SameTypeGeneric:  "execConcatSameType",
		ConvertedGeneric: "execConcatConverted",
		SameType:         allDTypes,
	}
	for _, lhs := range allDTypes {
		for _, rhs := range allDTypes {
			out := unify(lhs, rhs)
			data.Triples = append(data.Triples, TripleInfo{
				LHS: lhs, RHS: rhs, Out: out,
				ConvertLHS: converter(lhs, out),
				ConvertRHS: converter(rhs, out),
			})
		}
	}
	return data
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	registerTemplate := template.Must(
		template.
			New(fileName).
			Parse(

				`/***** File generated by ./internal/cmd/concat_dispatcher. Don't edit it directly. *****/

package concat

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/x448/float16"
)

func init() {
	// DTypeTripleMap: {{.MapName}}, all combinations of cell types.
{{- $mapName := .MapName }}
{{- $converted := .ConvertedGeneric }}
{{- range .Triples }}
	{{$mapName}}.Register(dtypes.{{.LHS.DType}}, dtypes.{{.RHS.DType}}, dtypes.{{.Out.DType}}, priorityGeneric,
		{{$converted}}[{{.LHS.GoType}}, {{.RHS.GoType}}, {{.Out.GoType}}]({{.ConvertLHS}}, {{.ConvertRHS}}))
{{- end }}

	// DTypeTripleMap: {{.MapName}}, operands and result of the same cell type.
{{- $sameType := .SameTypeGeneric }}
{{- range .SameType }}
	{{$mapName}}.Register(dtypes.{{.DType}}, dtypes.{{.DType}}, dtypes.{{.DType}}, priorityTyped, {{$sameType}}[{{.GoType}}]())
{{- end }}
}
`))
	fullPath := path.Join(must.M1(os.Getwd()), fileName)
	f := must.M1(os.Create(fullPath))
	must.M(registerTemplate.Execute(f, makeData()))
	must.M(f.Close())

	cmd := exec.Command("gofmt", "-w", fullPath)
	klog.V(1).Infof("\t%s\n", cmd)
	must.M(cmd.Run())
	fmt.Printf("✅ concat_dispatcher:  \tsuccessfully generated %s\n", fullPath)
}
