// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package concurrent

// RaceEnabled is true when the race detector is active.
// Blocking facades use it to shrink their bounded-spin phase, since the
// race detector's own overhead otherwise dominates spin timing.
const RaceEnabled = true
