// Copyright 2026 The udpsas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package udpsas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenUnsupported(t *testing.T) {
	_, err := Listen("udp4", "127.0.0.1:0")
	require.ErrorIs(t, err, ErrConfigure)
	require.ErrorIs(t, err, errors.ErrUnsupported)
}
