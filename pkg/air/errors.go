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
package air

import "errors"

// ErrInconsistentRecord indicates an execution record which disagrees with its
// program, such as an event referring to a function which does not exist.  This
// signals a mismatch between the runtime which produced the record and the
// chip consuming it.
var ErrInconsistentRecord = errors.New("inconsistent execution record")

// ErrShape indicates a fixed trace height which is too small to hold the rows
// of a chip.
var ErrShape = errors.New("invalid trace shape")
