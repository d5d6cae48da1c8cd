package opts

import (
	"github.com/walteh/applydir/pkg/config"
	"github.com/walteh/applydir/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Config     *config.Config
	BaseDir    string
	Formatter  status.ResultFormatter
	UserLogger *status.UserLogger
}
