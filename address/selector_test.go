// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package address

import (
	"testing"

	"github.com/gogama/httpcore/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	testCases := []struct {
		url      string
		expected Address
	}{
		{"http://127.0.0.1", Address{"127.0.0.1", 80}},
		{"https://127.0.0.1", Address{"127.0.0.1", 443}},
		{"https://127.0.0.1:8989", Address{"127.0.0.1", 8989}},
		{"HTTPS://example.com/a/b", Address{"example.com", 443}},
		{"wss://example.com", Address{"example.com", 443}},
		{"ws://example.com", Address{"example.com", 80}},
		{"http://[::1]:8080/x", Address{"::1", 8080}},
		{"http://[::1]", Address{"::1", 80}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.url, func(t *testing.T) {
			r, err := request.New("GET", testCase.url, nil)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, Default.Select(r))
		})
	}
}

func TestAddress_String(t *testing.T) {
	assert.Equal(t, "127.0.0.1:80", Address{"127.0.0.1", 80}.String())
	assert.Equal(t, "[::1]:443", Address{"::1", 443}.String())
}

func TestSelectorFunc(t *testing.T) {
	fixed := Address{"10.0.0.1", 9000}
	s := SelectorFunc(func(*request.Request) Address { return fixed })
	assert.Equal(t, fixed, s.Select(&request.Request{}))
}
