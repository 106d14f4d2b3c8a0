// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

// ParMap applies a given function to every item concurrently using go-routines,
// returning the results in item order.  Should any application fail, the error
// for the earliest such item is returned, making failure independent of
// scheduling.
func ParMap[S any, T any](items []S, fn func(uint, S) (T, error)) ([]T, error) {
	var (
		results = make([]T, len(items))
		errs    = make([]error, len(items))
		// Construct a communication channel for results.
		ch = make(chan parResult[T], len(items))
	)
	// Dispatch each item
	for i, item := range items {
		go func(index uint, item S) {
			val, err := fn(index, item)
			// Send outcome back
			ch <- parResult[T]{index, val, err}
		}(uint(i), item)
	}
	// Collect up all the results
	for range items {
		r := <-ch
		results[r.index], errs[r.index] = r.value, r.err
	}
	// Once we get here, all go routines are complete and we are sequential
	// again.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	// Done
	return results, nil
}

// SeqMap applies a given function to every item in turn, stopping at the first
// failure.
func SeqMap[S any, T any](items []S, fn func(uint, S) (T, error)) ([]T, error) {
	results := make([]T, len(items))
	//
	for i, item := range items {
		val, err := fn(uint(i), item)
		if err != nil {
			return nil, err
		}
		//
		results[i] = val
	}
	//
	return results, nil
}

// Result from a given application.
type parResult[T any] struct {
	// Index of the item.
	index uint
	// Value computed for the item.
	value T
	// An error (should one arise)
	err error
}
