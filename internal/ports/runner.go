package ports

import (
	"context"

	"github.com/devbush/tubekit/internal/domain"
)

// Runner executes external programs.
type Runner interface {
	// Run launches req.Binary and waits for it to exit. A non-zero exit
	// returns *domain.ProcessExitError; a binary that cannot be started
	// returns *domain.ProcessLaunchError.
	Run(ctx context.Context, req *domain.ExecRequest) (*domain.ExecResult, error)
}
