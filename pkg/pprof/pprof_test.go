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

package pprof

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	c := PprofConfig{Path: "debug/profiles/"}
	c.SetDefaults()
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 8083, c.Port)
	assert.Equal(t, "/debug/profiles", c.Path)
}

func TestHandler(t *testing.T) {
	s := NewServer(PprofConfig{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/goroutine?debug=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")
}

func TestDisabledServer(t *testing.T) {
	s := NewServer(PprofConfig{})
	assert.NoError(t, s.Start())
	assert.NoError(t, s.Stop(t.Context()))
}
