//go:build tools

package hostwatch

import (
	_ "github.com/dmarkham/enumer"
)
