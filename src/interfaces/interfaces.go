package interfaces

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Module is a long running part of the process started and closed by main.
type Module interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
}

type Logger struct {
	*logrus.Logger
}
