// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/moygit/keymaster/internal/logging"

func dbLogf(format string, v ...any) {
	logging.Debugf("db: "+format, v...)
}
