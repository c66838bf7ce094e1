// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"github.com/NVIDIA/cmdexplain/pkg/spec"
)

// Distribute assigns collected values to argument slots.
//
// Without a variadic slot, value i goes to slot i and every value past the
// last slot becomes its own overflow slot carrying an ExtraArguments error.
//
// With a variadic slot at index v, values fill three contiguous regions: the
// v fixed slots before it one to one, then the variadic slot takes every value
// not needed by the fixed slots after it, then the trailing fixed slots one to
// one. When there are too few values the regions are filled left to right and
// the variadic slot may stay empty. Missing values are never an error.
//
// Every declared slot is present in the result, in declaration order, with a
// non-nil (possibly empty) Values slice. slots is only read.
func Distribute(slots spec.ArgSlots, values []string) []ParsedSlot {
	result := make([]ParsedSlot, len(slots), len(slots)+overflowCount(slots, len(values)))
	for i := range slots {
		result[i] = ParsedSlot{
			Spec:   &slots[i],
			Name:   slots[i].Label(),
			Values: make([]string, 0, 1),
		}
	}

	for i, value := range values {
		idx := slotIndex(slots, len(values), i)
		if idx < 0 {
			result = append(result, ParsedSlot{
				Values: []string{value},
				Error:  extraArgument(value),
			})
			continue
		}
		result[idx].Values = append(result[idx].Values, value)
	}

	return result
}

// slotIndex returns the slot receiving value i out of n, or -1 for overflow.
func slotIndex(slots spec.ArgSlots, n, i int) int {
	v := slots.VariadicIndex()
	if v < 0 {
		if i < len(slots) {
			return i
		}
		return -1
	}

	before := v
	after := len(slots) - v - 1
	absorbed := max(0, n-before-after)

	switch {
	case i < before:
		return i
	case i < before+absorbed:
		return v
	default:
		return v + 1 + (i - before - absorbed)
	}
}

func overflowCount(slots spec.ArgSlots, n int) int {
	if slots.VariadicIndex() >= 0 || n <= len(slots) {
		return 0
	}
	return n - len(slots)
}

// slotState collects raw values for one slot list while tokens are consumed.
type slotState struct {
	slots    spec.ArgSlots
	variadic bool
	values   []string
}

func newSlotState(slots spec.ArgSlots) *slotState {
	return &slotState{
		slots:    slots,
		variadic: slots.VariadicIndex() >= 0,
	}
}

func (s *slotState) push(value string) {
	s.values = append(s.values, value)
}

// exhausted reports whether the state can accept no more values: there is no
// variadic slot and every fixed slot already has a value.
func (s *slotState) exhausted() bool {
	return !s.variadic && len(s.values) >= len(s.slots)
}

func (s *slotState) finalize() []ParsedSlot {
	return Distribute(s.slots, s.values)
}
