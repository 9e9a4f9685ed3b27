// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package concat

import (
	"github.com/gomlx/gopjrt/dtypes/bfloat16"
	"github.com/gomlx/mixedtensor/pkg/core/dtypes"
	"github.com/x448/float16"
)

// Cell converters used by the concat kernels: the result cell type is either the operand's own
// type, or a wider POD float type (see dtypes.Unify).

func convertIdentity[T dtypes.Supported](v T) T { return v }

func convertPOD[From, To dtypes.POD](v From) To { return To(v) }

func convertFromBFloat16[To dtypes.POD](v bfloat16.BFloat16) To { return To(v.Float32()) }

func convertFromFloat16[To dtypes.POD](v float16.Float16) To { return To(v.Float32()) }
