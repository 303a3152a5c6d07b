// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDo(t *testing.T) {
	assert.NotPanics(t, func() {
		Do(func() { panic("boom") })
	})

	ran := false
	Do(func() { ran = true })
	assert.True(t, ran)
}

func TestGo(t *testing.T) {
	done := make(chan struct{})
	Go(func() {
		defer close(done)
		panic("boom in goroutine")
	})
	<-done
}
