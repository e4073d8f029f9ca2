// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	_ "github.com/blackbird/fio-status/plugin/fio.d/collector/fiostatus"
)
