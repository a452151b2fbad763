// Copyright (c) 2026 Keymaster Team
// Keymaster - deterministic password manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	_ "github.com/go-sql-driver/mysql" // registers the "mysql" driver
)
